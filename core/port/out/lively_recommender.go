package out

import (
	"context"

	"lively_server/core/domain"
)

// Recommender produces one recommendation for an interest. Implementations
// must never fail: generation problems of any kind resolve into the
// deterministic fallback recommendation.
type Recommender interface {
	Generate(ctx context.Context, interest string) domain.Recommendation
}
