package compiler

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/modcss/internal/core/domain"
)

// Invalidate clears the entry of id and of every file that transitively
// depends on it. Nothing is recompiled until the next fetch. Compiles of the
// affected files that are still running will not commit their results, and
// later fetches start a fresh compile instead of joining them.
// It returns the affected files in path order. Repeating an invalidation is
// harmless and a file the session never saw affects nothing.
func (s *Session) Invalidate(id domain.FileID) []domain.FileID {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected := s.invalidateLocked(id, make(map[domain.FileID]struct{}))
	slices.SortFunc(affected, domain.FileID.Compare)
	return affected
}

// InvalidatePaths invalidates every path in a batch of changes.
// A path naming a directory also invalidates every known file below it, which
// covers removed and renamed directories. Paths that are not part of the
// session are ignored.
func (s *Session) InvalidatePaths(paths []string) []domain.FileID {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[domain.FileID]struct{})
	var affected []domain.FileID
	for _, p := range paths {
		affected = append(affected, s.invalidateLocked(domain.NewFileID(p), seen)...)
		for _, id := range s.knownBelowLocked(p) {
			affected = append(affected, s.invalidateLocked(id, seen)...)
		}
	}
	slices.SortFunc(affected, domain.FileID.Compare)
	return affected
}

// invalidateLocked clears id and its transitive dependants not yet in seen.
// Dependants include running compiles that already fetched an affected file.
// Must hold s.mu.
func (s *Session) invalidateLocked(id domain.FileID, seen map[domain.FileID]struct{}) []domain.FileID {
	if !s.knownLocked(id) {
		return nil
	}

	var affected []domain.FileID
	queue := []domain.FileID{id}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}

		s.epochs[t]++
		s.cache.Invalidate(t)
		delete(s.flights, t)
		delete(s.failed, t)
		affected = append(affected, t)

		queue = append(queue, s.graph.Dependants(t)...)
		queue = append(queue, s.observersLocked(t)...)
	}
	if len(affected) > 0 {
		s.logger.Debug("invalidated " + id.String())
	}
	return affected
}

// knownLocked reports whether id is cached, compiling, failed or in the graph.
// Must hold s.mu.
func (s *Session) knownLocked(id domain.FileID) bool {
	if _, ok := s.cache.Get(id); ok {
		return true
	}
	if _, ok := s.flights[id]; ok {
		return true
	}
	if _, ok := s.failed[id]; ok {
		return true
	}
	return s.graph.Has(id) || len(s.observersLocked(id)) > 0
}

// observersLocked returns the running compiles that fetched id. Must hold s.mu.
func (s *Session) observersLocked(id domain.FileID) []domain.FileID {
	var out []domain.FileID
	for fr := range s.active {
		if _, ok := fr.deps[id]; ok {
			out = append(out, fr.id)
		}
	}
	slices.SortFunc(out, domain.FileID.Compare)
	return out
}

// knownBelowLocked returns the known files inside dir. Must hold s.mu.
func (s *Session) knownBelowLocked(dir string) []domain.FileID {
	prefix := filepath.Clean(dir) + string(filepath.Separator)

	candidates := s.graph.Files()
	candidates = append(candidates, s.cache.Files()...)
	for id := range s.flights {
		candidates = append(candidates, id)
	}
	for id := range s.failed {
		candidates = append(candidates, id)
	}

	var out []domain.FileID
	for _, id := range candidates {
		if strings.HasPrefix(id.String(), prefix) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	slices.SortFunc(out, domain.FileID.Compare)
	return out
}
