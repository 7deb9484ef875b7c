// Package domain contains the core domain models of the stylesheet compiler.
package domain

import (
	"errors"
	"slices"
	"sync"

	"github.com/dominikbraun/graph"
	"go.trai.ch/zerr"
)

// DependencyGraph records which stylesheets import which.
// An edge A -> B means A depends on B through @value or composes.
// Cycles are allowed; every traversal keeps a visited set.
type DependencyGraph struct {
	mu sync.RWMutex
	g  graph.Graph[FileID, FileID]
}

func fileHash(f FileID) FileID { return f }

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		g: graph.New(fileHash, graph.Directed()),
	}
}

// AddFile registers a node without edges. Adding a known file is a no-op.
func (d *DependencyGraph) AddFile(id FileID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addVertex(id)
}

func (d *DependencyGraph) addVertex(id FileID) error {
	if err := d.g.AddVertex(id); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return zerr.With(zerr.Wrap(err, ErrGraphUpdateFailed.Error()), "file", id.String())
	}
	return nil
}

// RecordEdges replaces the outgoing edges of id with refs.
// Edges recorded by an earlier compile of id are dropped, never merged.
// Self references are ignored.
func (d *DependencyGraph) RecordEdges(id FileID, refs []FileID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.addVertex(id); err != nil {
		return err
	}

	want := make(map[FileID]struct{}, len(refs))
	for _, ref := range refs {
		if ref == id || ref.IsZero() {
			continue
		}
		want[ref] = struct{}{}
	}

	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return zerr.Wrap(err, ErrGraphUpdateFailed.Error())
	}

	for target := range adjacency[id] {
		if _, keep := want[target]; keep {
			delete(want, target)
			continue
		}
		if err := d.g.RemoveEdge(id, target); err != nil && !errors.Is(err, graph.ErrEdgeNotFound) {
			return zerr.With(zerr.Wrap(err, ErrGraphUpdateFailed.Error()), "file", id.String())
		}
	}

	// Remaining entries are new edges; add in reference order for stable storage.
	for _, ref := range refs {
		if _, add := want[ref]; !add {
			continue
		}
		delete(want, ref)
		if err := d.addVertex(ref); err != nil {
			return err
		}
		if err := d.g.AddEdge(id, ref); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return zerr.With(zerr.Wrap(err, ErrGraphUpdateFailed.Error()), "file", id.String())
		}
	}
	return nil
}

// Has reports whether id is a node of the graph.
func (d *DependencyGraph) Has(id FileID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, err := d.g.Vertex(id)
	return err == nil
}

// Files returns every node in path order.
func (d *DependencyGraph) Files() []FileID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	return sortedKeys(adjacency)
}

// Dependencies returns the files id imports directly.
func (d *DependencyGraph) Dependencies(id FileID) []FileID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	return sortedKeys(adjacency[id])
}

// Dependants returns the files that import id directly.
func (d *DependencyGraph) Dependants(id FileID) []FileID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	predecessors, err := d.g.PredecessorMap()
	if err != nil {
		return nil
	}
	return sortedKeys(predecessors[id])
}

// TransitiveDependants returns every file that reaches id through one or more
// edges. The queried file is never part of the result, even when it sits on a cycle.
func (d *DependencyGraph) TransitiveDependants(id FileID) []FileID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	predecessors, err := d.g.PredecessorMap()
	if err != nil {
		return nil
	}

	visited := map[FileID]struct{}{id: {}}
	queue := []FileID{id}
	var out []FileID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dependant := range predecessors[cur] {
			if _, seen := visited[dependant]; seen {
				continue
			}
			visited[dependant] = struct{}{}
			out = append(out, dependant)
			queue = append(queue, dependant)
		}
	}
	slices.SortFunc(out, FileID.Compare)
	return out
}

// Reset drops every node and edge.
func (d *DependencyGraph) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.g = graph.New(fileHash, graph.Directed())
}

func sortedKeys[V any](m map[FileID]V) []FileID {
	out := make([]FileID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.SortFunc(out, FileID.Compare)
	return out
}
