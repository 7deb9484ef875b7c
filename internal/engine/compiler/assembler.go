package compiler

import (
	"strings"

	"go.trai.ch/modcss/internal/core/domain"
)

// FragmentSeparator joins compiled fragments in the combined stylesheet.
const FragmentSeparator = "\n"

// Assemble orders every cached fragment and builds the combined stylesheet and
// the token manifest.
//
// Files are ordered by first visit: a pre-order walk from entries, in the order
// given, following each file's references in source order. Cached files that
// the walk does not reach keep the order in which the session first compiled them
// and follow the visited ones. Manifest keys are slash paths relative to root.
func (s *Session) Assemble(root string, entries []domain.FileID) (*domain.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrSessionClosed
	}

	order := s.visitOrder(entries)

	fragments := make([]string, 0, len(order))
	manifest := make(domain.Manifest, len(order))
	for _, id := range order {
		entry, _ := s.cache.Get(id)
		fragments = append(fragments, entry.CSS)
		manifest[id.Rel(root)] = entry.Tokens.Clone()
	}

	return &domain.Bundle{
		CSS:      strings.Join(fragments, FragmentSeparator),
		Manifest: manifest,
		Order:    order,
	}, nil
}

// visitOrder returns the present files in assembly order. Must hold s.mu.
func (s *Session) visitOrder(entries []domain.FileID) []domain.FileID {
	visited := make(map[domain.FileID]struct{})
	order := make([]domain.FileID, 0, s.cache.Len())

	var visit func(id domain.FileID)
	visit = func(id domain.FileID) {
		if _, ok := visited[id]; ok {
			return
		}
		visited[id] = struct{}{}

		entry, ok := s.cache.Get(id)
		if !ok {
			return
		}
		order = append(order, id)
		for _, ref := range entry.References {
			visit(ref)
		}
	}

	for _, id := range entries {
		visit(id)
	}

	for _, id := range s.order {
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		if _, ok := s.cache.Get(id); ok {
			order = append(order, id)
		}
	}
	return order
}
