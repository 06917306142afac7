package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"lively_server/core/domain"
	"lively_server/core/port/out"
)

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	profiles map[string][]string
	err      error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string][]string)}
}

func (r *fakeProfileRepo) GetOrCreate(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.profiles[userID]; !ok {
		r.profiles[userID] = []string{}
	}
	return &domain.UserProfile{UserID: userID, Interests: r.profiles[userID]}, nil
}

func (r *fakeProfileRepo) AddInterest(ctx context.Context, userID, interest string) (bool, []string, error) {
	if r.err != nil {
		return false, nil, r.err
	}
	interests := r.profiles[userID]
	for _, i := range interests {
		if i == interest {
			return false, interests, nil
		}
	}
	interests = append(interests, interest)
	r.profiles[userID] = interests
	return true, interests, nil
}

func (r *fakeProfileRepo) RemoveInterest(ctx context.Context, userID, interest string) ([]string, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	interests, ok := r.profiles[userID]
	if !ok {
		return nil, false, nil
	}
	kept := interests[:0:0]
	for _, i := range interests {
		if i != interest {
			kept = append(kept, i)
		}
	}
	r.profiles[userID] = kept
	return kept, true, nil
}

func (r *fakeProfileRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeDiscoveryRepo is an in-memory DiscoveryRepository.
type fakeDiscoveryRepo struct {
	discoveries []*domain.Discovery
	err         error
}

func (r *fakeDiscoveryRepo) Create(ctx context.Context, d *domain.Discovery) error {
	if r.err != nil {
		return r.err
	}
	r.discoveries = append(r.discoveries, d)
	return nil
}

func (r *fakeDiscoveryRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Discovery, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []*domain.Discovery
	for _, d := range r.discoveries {
		if d.UserID == userID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (r *fakeDiscoveryRepo) DeleteByInterest(ctx context.Context, userID, relatedInterest string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	kept := r.discoveries[:0:0]
	var deleted int64
	for _, d := range r.discoveries {
		if d.UserID == userID && d.RelatedInterest == relatedInterest {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	r.discoveries = kept
	return deleted, nil
}

func (r *fakeDiscoveryRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeScoutQueue records enqueued jobs.
type fakeScoutQueue struct {
	jobs []*out.ScoutJob
	err  error
}

func (q *fakeScoutQueue) EnqueueScout(ctx context.Context, job *out.ScoutJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func TestGetProfileLazyCreation(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo, &fakeDiscoveryRepo{}, &fakeScoutQueue{})

	resp, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Interests == nil || len(resp.Interests) != 0 {
		t.Errorf("expected empty non-nil interests, got %#v", resp.Interests)
	}
	if resp.Discoveries == nil || len(resp.Discoveries) != 0 {
		t.Errorf("expected empty non-nil discoveries, got %#v", resp.Discoveries)
	}

	// Profile is now persisted, not recreated
	if _, ok := repo.profiles["u1"]; !ok {
		t.Error("expected profile to be persisted after first read")
	}

	again, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error on second read: %v", err)
	}
	if len(again.Interests) != 0 {
		t.Errorf("expected same empty state, got %#v", again.Interests)
	}
}

func TestAddInterestEnqueuesScout(t *testing.T) {
	queue := &fakeScoutQueue{}
	svc := NewService(newFakeProfileRepo(), &fakeDiscoveryRepo{}, queue)

	interests, err := svc.AddInterest(context.Background(), "u1", "Hiking")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(interests) != 1 || interests[0] != "Hiking" {
		t.Errorf("expected [Hiking], got %#v", interests)
	}
	if len(queue.jobs) != 1 {
		t.Fatalf("expected 1 scout job, got %d", len(queue.jobs))
	}
	job := queue.jobs[0]
	if job.UserID != "u1" || job.Interest != "Hiking" {
		t.Errorf("unexpected job %+v", job)
	}
	if job.RequestedAt.IsZero() || time.Since(job.RequestedAt) > time.Minute {
		t.Errorf("unexpected RequestedAt %v", job.RequestedAt)
	}
}

func TestAddInterestIdempotent(t *testing.T) {
	queue := &fakeScoutQueue{}
	svc := NewService(newFakeProfileRepo(), &fakeDiscoveryRepo{}, queue)

	for i := 0; i < 2; i++ {
		interests, err := svc.AddInterest(context.Background(), "u1", "Hiking")
		if err != nil {
			t.Fatalf("unexpected error on add %d: %v", i, err)
		}
		if len(interests) != 1 {
			t.Errorf("expected exactly one occurrence after add %d, got %#v", i, interests)
		}
	}

	// Only the first add scouts
	if len(queue.jobs) != 1 {
		t.Errorf("expected 1 scout job after duplicate add, got %d", len(queue.jobs))
	}
}

func TestAddInterestEmptyIsNoOp(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.profiles["u1"] = []string{"Hiking"}
	queue := &fakeScoutQueue{}
	svc := NewService(repo, &fakeDiscoveryRepo{}, queue)

	interests, err := svc.AddInterest(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(interests) != 1 || interests[0] != "Hiking" {
		t.Errorf("expected unchanged interests, got %#v", interests)
	}
	if len(queue.jobs) != 0 {
		t.Errorf("expected no scout job for empty interest, got %d", len(queue.jobs))
	}
}

func TestAddInterestEnqueueFailureNotSurfaced(t *testing.T) {
	queue := &fakeScoutQueue{err: errors.New("queue down")}
	svc := NewService(newFakeProfileRepo(), &fakeDiscoveryRepo{}, queue)

	interests, err := svc.AddInterest(context.Background(), "u1", "Hiking")
	if err != nil {
		t.Fatalf("enqueue failure must not surface, got: %v", err)
	}
	if len(interests) != 1 {
		t.Errorf("expected interest stored despite queue failure, got %#v", interests)
	}
}

func TestAddInterestStorageError(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.err = errors.New("store unavailable")
	svc := NewService(repo, &fakeDiscoveryRepo{}, &fakeScoutQueue{})

	if _, err := svc.AddInterest(context.Background(), "u1", "Hiking"); err == nil {
		t.Error("expected storage error to surface")
	}
}

func TestRemoveInterestCascade(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.profiles["u1"] = []string{"Hiking", "Live Jazz"}
	discoveries := &fakeDiscoveryRepo{discoveries: []*domain.Discovery{
		{ID: "d1", UserID: "u1", RelatedInterest: "Hiking"},
		{ID: "d2", UserID: "u1", RelatedInterest: "Hiking"},
		{ID: "d3", UserID: "u1", RelatedInterest: "Live Jazz"},
		{ID: "d4", UserID: "u2", RelatedInterest: "Hiking"},
	}}
	svc := NewService(repo, discoveries, &fakeScoutQueue{})

	interests, err := svc.RemoveInterest(context.Background(), "u1", "Hiking")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(interests) != 1 || interests[0] != "Live Jazz" {
		t.Errorf("expected [Live Jazz], got %#v", interests)
	}

	// Only (u1, Hiking) discoveries are gone
	if len(discoveries.discoveries) != 2 {
		t.Fatalf("expected 2 surviving discoveries, got %d", len(discoveries.discoveries))
	}
	for _, d := range discoveries.discoveries {
		if d.UserID == "u1" && d.RelatedInterest == "Hiking" {
			t.Errorf("discovery %s should have been cascade-deleted", d.ID)
		}
	}
}

func TestRemoveInterestUnknownProfile(t *testing.T) {
	svc := NewService(newFakeProfileRepo(), &fakeDiscoveryRepo{}, &fakeScoutQueue{})

	interests, err := svc.RemoveInterest(context.Background(), "ghost", "Hiking")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interests == nil || len(interests) != 0 {
		t.Errorf("expected empty non-nil list for unknown profile, got %#v", interests)
	}
}

func TestAddThenRemoveScenario(t *testing.T) {
	repo := newFakeProfileRepo()
	discoveries := &fakeDiscoveryRepo{}
	queue := &fakeScoutQueue{}
	svc := NewService(repo, discoveries, queue)
	ctx := context.Background()

	if _, err := svc.AddInterest(ctx, "u1", "Hiking"); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Simulate the scout pipeline landing a discovery later
	rec := domain.FallbackRecommendation("Hiking")
	discoveries.Create(ctx, &domain.Discovery{
		ID: "d1", UserID: "u1", RelatedInterest: "Hiking",
		Title: rec.Title, Description: rec.Description, Color: rec.Color, Icon: rec.Icon,
	})

	resp, err := svc.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(resp.Discoveries) != 1 || resp.Discoveries[0].RelatedInterest != "Hiking" {
		t.Fatalf("expected one Hiking discovery, got %#v", resp.Discoveries)
	}

	interests, err := svc.RemoveInterest(ctx, "u1", "Hiking")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(interests) != 0 {
		t.Errorf("expected empty interests, got %#v", interests)
	}

	resp, err = svc.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get after remove: %v", err)
	}
	if len(resp.Discoveries) != 0 {
		t.Errorf("expected no discoveries after removal, got %#v", resp.Discoveries)
	}
}
