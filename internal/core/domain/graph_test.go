package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modcss/internal/core/domain"
)

func ids(t *testing.T, names ...string) []domain.FileID {
	t.Helper()
	root := t.TempDir()
	out := make([]domain.FileID, len(names))
	for i, n := range names {
		out[i] = domain.NewFileID(filepath.Join(root, n))
	}
	return out
}

func TestDependencyGraph_RecordEdgesReplaces(t *testing.T) {
	f := ids(t, "a.css", "b.css", "c.css")
	a, b, c := f[0], f[1], f[2]

	g := domain.NewDependencyGraph()
	require.NoError(t, g.RecordEdges(a, []domain.FileID{b, c}))
	assert.ElementsMatch(t, []domain.FileID{b, c}, g.Dependencies(a))
	assert.Equal(t, []domain.FileID{a}, g.Dependants(b))

	require.NoError(t, g.RecordEdges(a, []domain.FileID{c}))
	assert.Equal(t, []domain.FileID{c}, g.Dependencies(a))
	assert.Empty(t, g.Dependants(b))
	assert.True(t, g.Has(b), "referenced files stay known after their edge is dropped")
}

func TestDependencyGraph_IgnoresSelfReference(t *testing.T) {
	f := ids(t, "a.css")
	g := domain.NewDependencyGraph()
	require.NoError(t, g.RecordEdges(f[0], []domain.FileID{f[0]}))
	assert.Empty(t, g.Dependencies(f[0]))
}

func TestDependencyGraph_TransitiveDependants(t *testing.T) {
	tests := []struct {
		name  string
		edges map[string][]string
		query string
		want  []string
	}{
		{
			name:  "chain",
			edges: map[string][]string{"a": {"b"}, "b": {"c"}},
			query: "c",
			want:  []string{"a", "b"},
		},
		{
			name:  "diamond",
			edges: map[string][]string{"a": {"b", "c"}, "b": {"d"}, "c": {"d"}},
			query: "d",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "two node cycle excludes the queried file",
			edges: map[string][]string{"a": {"b"}, "b": {"a"}},
			query: "a",
			want:  []string{"b"},
		},
		{
			name:  "three node cycle terminates",
			edges: map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}},
			query: "b",
			want:  []string{"a", "c"},
		},
		{
			name:  "unknown file",
			edges: map[string][]string{"a": {"b"}},
			query: "z",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			id := func(n string) domain.FileID { return domain.NewFileID(filepath.Join(root, n+".css")) }

			g := domain.NewDependencyGraph()
			for from, tos := range tt.edges {
				refs := make([]domain.FileID, len(tos))
				for i, to := range tos {
					refs[i] = id(to)
				}
				require.NoError(t, g.RecordEdges(id(from), refs))
			}

			var want []domain.FileID
			for _, n := range tt.want {
				want = append(want, id(n))
			}
			assert.Equal(t, want, g.TransitiveDependants(id(tt.query)))
		})
	}
}

func TestDependencyGraph_Reset(t *testing.T) {
	f := ids(t, "a.css", "b.css")
	g := domain.NewDependencyGraph()
	require.NoError(t, g.RecordEdges(f[0], []domain.FileID{f[1]}))

	g.Reset()

	assert.Empty(t, g.Files())
	assert.False(t, g.Has(f[0]))
}
