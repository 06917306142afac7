package scout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lively_server/core/domain"
	"lively_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

// Completer is the slice of the LLM client the generator needs.
type Completer interface {
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

// GeneratorConfig holds generator configuration.
type GeneratorConfig struct {
	City    string        // city the concierge scouts, e.g. "London, United Kingdom"
	Timeout time.Duration // per-call deadline for the LLM request
}

// Generator turns one interest string into a recommendation by prompting
// the LLM. It never fails: any problem on the way (breaker open, network,
// malformed JSON, schema violation) resolves into the deterministic
// fallback recommendation. Scouting is best-effort, so there is no retry
// here; retries belong to the job pipeline.
type Generator struct {
	llm     Completer
	city    string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(llm Completer, cfg GeneratorConfig) *Generator {
	city := cfg.City
	if city == "" {
		city = "London, United Kingdom"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "scout-llm",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Generator{
		llm:     llm,
		city:    city,
		timeout: timeout,
		breaker: breaker,
		now:     time.Now,
	}
}

// Generate produces a recommendation for the interest.
func (g *Generator) Generate(ctx context.Context, interest string) domain.Recommendation {
	prompt := g.buildPrompt(interest)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.breaker.Execute(func() (any, error) {
		return g.llm.CompleteJSON(callCtx, prompt)
	})
	if err != nil {
		logger.WithError(err).Warn("Scout generation failed for %q, using fallback", interest)
		return domain.FallbackRecommendation(interest)
	}

	rec, err := parseRecommendation(raw.(string))
	if err != nil {
		logger.WithError(err).Warn("Scout response rejected for %q, using fallback", interest)
		return domain.FallbackRecommendation(interest)
	}

	return rec
}

// buildPrompt assembles the concierge prompt. Today's date is included so
// the model favors currently relevant activities.
func (g *Generator) buildPrompt(interest string) string {
	today := g.now().Format("Mon Jan 02 2006")

	return fmt.Sprintf(`You are a hyper-local concierge agent for %s.
Today is %s.

The user is interested in: %q.

Find ONE specific and real activity/event/location fitting this vibe.

Return a raw JSON object with these exact fields:
- title: (String) Short, punchy title of the place or event.
- description: (String) 2 sentences. Why is it cool? Mention a specific detail (e.g., "Best at sunset", "Try the house blend").
- color: (String) Hex code matching the vibe. Use %s for chill/water, %s for adventure, %s for social/nightlife, %s for intellectual.
- icon: (String) A valid Ionicons name (e.g., "walk", "wine", "musical-notes", "camera", "restaurant", "star", "bicycle").`,
		g.city, today, interest,
		domain.ColorChill, domain.ColorAdventure, domain.ColorSocial, domain.ColorIntellectual)
}

// parseRecommendation decodes and validates the model's reply. The reply
// is untrusted: it may be wrapped in code fences, be malformed, or carry
// fields outside the allowed schema.
func parseRecommendation(raw string) (domain.Recommendation, error) {
	var rec domain.Recommendation

	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return rec, fmt.Errorf("empty response")
	}

	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return rec, fmt.Errorf("parse response: %w", err)
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}

	return rec, nil
}

// stripCodeFence removes a Markdown ```json fence if the model wrapped its
// reply in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
