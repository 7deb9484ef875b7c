package compiler

import (
	"context"
	"slices"

	"go.trai.ch/modcss/internal/core/domain"
)

type chainKey struct{}

// chainFrom returns the compiles currently running on this call stack, outermost first.
func chainFrom(ctx context.Context) []domain.FileID {
	chain, _ := ctx.Value(chainKey{}).([]domain.FileID)
	return chain
}

// withChain returns a context whose chain ends with id.
func withChain(ctx context.Context, id domain.FileID) context.Context {
	chain := chainFrom(ctx)
	next := make([]domain.FileID, len(chain), len(chain)+1)
	copy(next, chain)
	return context.WithValue(ctx, chainKey{}, append(next, id))
}

func chainOwner(chain []domain.FileID) (domain.FileID, bool) {
	if len(chain) == 0 {
		return domain.FileID{}, false
	}
	return chain[len(chain)-1], true
}

func chainContains(chain []domain.FileID, id domain.FileID) bool {
	return slices.Contains(chain, id)
}

type frameKey struct{}

// frame is one running compile. deps holds every file it has fetched so far,
// so an invalidation can reach compiles that have not recorded edges yet.
// deps is guarded by Session.mu.
type frame struct {
	id   domain.FileID
	deps map[domain.FileID]struct{}
}

func frameFrom(ctx context.Context) *frame {
	f, _ := ctx.Value(frameKey{}).(*frame)
	return f
}

func withFrame(ctx context.Context, f *frame) context.Context {
	return context.WithValue(ctx, frameKey{}, f)
}
