package worker

import (
	"context"
	"errors"
	"testing"

	"lively_server/core/domain"
)

type stubRecommender struct {
	rec   domain.Recommendation
	calls int
}

func (s *stubRecommender) Generate(ctx context.Context, interest string) domain.Recommendation {
	s.calls++
	if s.rec.Title != "" {
		return s.rec
	}
	return domain.FallbackRecommendation(interest)
}

type recordingDiscoveryRepo struct {
	created []*domain.Discovery
	err     error
}

func (r *recordingDiscoveryRepo) Create(ctx context.Context, d *domain.Discovery) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, d)
	return nil
}

func (r *recordingDiscoveryRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Discovery, error) {
	return r.created, nil
}

func (r *recordingDiscoveryRepo) DeleteByInterest(ctx context.Context, userID, relatedInterest string) (int64, error) {
	return 0, nil
}

func (r *recordingDiscoveryRepo) EnsureIndexes(ctx context.Context) error { return nil }

func scoutMessage(userID, interest string) *Message {
	return NewMessage(JobScoutInterest, map[string]any{
		"user_id":  userID,
		"interest": interest,
	})
}

func TestProcessInterestPersistsDiscovery(t *testing.T) {
	rec := &stubRecommender{rec: domain.Recommendation{
		Title:       "Kayak the Regent's Canal",
		Description: "Paddle past Camden Lock at golden hour. Rentals by the hour.",
		Color:       domain.ColorChill,
		Icon:        "boat",
	}}
	repo := &recordingDiscoveryRepo{}
	p := NewScoutProcessor(rec, repo)

	err := p.ProcessInterest(context.Background(), scoutMessage("u1", "Kayaking"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 discovery, got %d", len(repo.created))
	}
	d := repo.created[0]
	if d.UserID != "u1" || d.RelatedInterest != "Kayaking" {
		t.Errorf("unexpected ownership fields: %+v", d)
	}
	if d.Title != "Kayak the Regent's Canal" || d.Color != domain.ColorChill || d.Icon != "boat" {
		t.Errorf("generated fields not carried over: %+v", d)
	}
}

func TestProcessInterestFallbackStillPersisted(t *testing.T) {
	repo := &recordingDiscoveryRepo{}
	p := NewScoutProcessor(&stubRecommender{}, repo)

	if err := p.ProcessInterest(context.Background(), scoutMessage("u1", "Hiking")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected fallback discovery to be persisted, got %d", len(repo.created))
	}
	if repo.created[0].Title != "Hiking Spot" {
		t.Errorf("expected fallback title, got %q", repo.created[0].Title)
	}
}

func TestProcessInterestPersistenceErrorPropagates(t *testing.T) {
	repo := &recordingDiscoveryRepo{err: errors.New("store down")}
	p := NewScoutProcessor(&stubRecommender{}, repo)

	if err := p.ProcessInterest(context.Background(), scoutMessage("u1", "Hiking")); err == nil {
		t.Error("expected persistence error to propagate for retry")
	}
}

func TestProcessInterestDropsEmptyJob(t *testing.T) {
	rec := &stubRecommender{}
	repo := &recordingDiscoveryRepo{}
	p := NewScoutProcessor(rec, repo)

	if err := p.ProcessInterest(context.Background(), scoutMessage("u1", "")); err != nil {
		t.Fatalf("empty job must be dropped, not retried: %v", err)
	}
	if rec.calls != 0 || len(repo.created) != 0 {
		t.Error("empty job must not reach the generator or the store")
	}
}

func TestHandlerRoutesScoutInterest(t *testing.T) {
	rec := &stubRecommender{}
	repo := &recordingDiscoveryRepo{}
	h := NewHandler(NewScoutProcessor(rec, repo))

	if err := h.Process(context.Background(), scoutMessage("u1", "Hiking")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.calls != 1 {
		t.Errorf("expected generator call, got %d", rec.calls)
	}
}

func TestHandlerIgnoresUnknownJobType(t *testing.T) {
	h := NewHandler(NewScoutProcessor(&stubRecommender{}, &recordingDiscoveryRepo{}))

	msg := NewMessage("mystery.job", nil)
	if err := h.Process(context.Background(), msg); err != nil {
		t.Errorf("unknown job types are dropped, not errors: %v", err)
	}
}

func TestParsePayload(t *testing.T) {
	msg := NewMessage(JobScoutInterest, map[string]any{
		"user_id":  "u1",
		"interest": "Hiking",
	})

	type payload struct {
		UserID   string `json:"user_id"`
		Interest string `json:"interest"`
	}

	p, err := ParsePayload[payload](msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != "u1" || p.Interest != "Hiking" {
		t.Errorf("unexpected payload %+v", p)
	}
}
