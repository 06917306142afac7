package scout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lively_server/core/domain"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestGenerator(llm Completer) *Generator {
	g := NewGenerator(llm, GeneratorConfig{City: "London, United Kingdom", Timeout: time.Second})
	g.now = func() time.Time { return time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC) }
	return g
}

func TestGenerateValidResponse(t *testing.T) {
	llm := &fakeCompleter{
		response: `{"title":"Hampstead Heath Ponds","description":"Wild swimming minutes from the city. Best at sunrise.","color":"#0EA5E9","icon":"walk"}`,
	}
	g := newTestGenerator(llm)

	rec := g.Generate(context.Background(), "Wild Swimming")

	if rec.Title != "Hampstead Heath Ponds" {
		t.Errorf("expected generated title, got %q", rec.Title)
	}
	if rec.Color != domain.ColorChill {
		t.Errorf("expected chill color, got %q", rec.Color)
	}
	if rec.Icon != "walk" {
		t.Errorf("expected icon 'walk', got %q", rec.Icon)
	}
}

func TestGenerateFallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{
			name: "service error",
			err:  errors.New("connection refused"),
		},
		{
			name:     "malformed JSON",
			response: "sorry, I cannot help with that",
		},
		{
			name:     "empty response",
			response: "",
		},
		{
			name:     "missing fields",
			response: `{"title":"Somewhere"}`,
		},
		{
			name:     "color outside palette",
			response: `{"title":"Somewhere","description":"Two sentences. Really.","color":"#FF0000","icon":"walk"}`,
		},
		{
			name:     "icon outside vocabulary",
			response: `{"title":"Somewhere","description":"Two sentences. Really.","color":"#0EA5E9","icon":"dragon"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(&fakeCompleter{response: tt.response, err: tt.err})

			rec := g.Generate(context.Background(), "Hiking")

			want := domain.FallbackRecommendation("Hiking")
			if rec != want {
				t.Errorf("expected fallback %+v, got %+v", want, rec)
			}
		})
	}
}

func TestGenerateFallbackDeterminism(t *testing.T) {
	g := newTestGenerator(&fakeCompleter{err: errors.New("boom")})

	rec := g.Generate(context.Background(), "Live Jazz")

	if rec.Title != "Live Jazz Spot" {
		t.Errorf("expected title 'Live Jazz Spot', got %q", rec.Title)
	}
	if rec.Color != domain.ColorFallback {
		t.Errorf("expected fallback color, got %q", rec.Color)
	}
	if rec.Icon != domain.IconFallback {
		t.Errorf("expected fallback icon, got %q", rec.Icon)
	}
	if rec.Description == "" {
		t.Error("expected a fixed fallback description")
	}
}

func TestGenerateStripsCodeFence(t *testing.T) {
	llm := &fakeCompleter{
		response: "```json\n{\"title\":\"Barbican Conservatory\",\"description\":\"A tropical greenhouse hidden in brutalist concrete. Free on Sundays.\",\"color\":\"#1E293B\",\"icon\":\"leaf\"}\n```",
	}
	g := newTestGenerator(llm)

	rec := g.Generate(context.Background(), "Architecture")

	if rec.Title != "Barbican Conservatory" {
		t.Errorf("expected fenced JSON to be accepted, got %+v", rec)
	}
}

func TestPromptContents(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("short-circuit")}
	g := newTestGenerator(llm)

	g.Generate(context.Background(), "Night Markets")

	if len(llm.prompts) != 1 {
		t.Fatalf("expected exactly one LLM call, got %d", len(llm.prompts))
	}
	prompt := llm.prompts[0]

	for _, want := range []string{
		"Night Markets",
		"London, United Kingdom",
		"Fri Jun 07 2024",
		domain.ColorChill,
		domain.ColorIntellectual,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
