package compiler_test

import (
	"context"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modcss/internal/core/domain"
)

func TestInvalidate_Transitive(t *testing.T) {
	env := setupSessionTest(t)
	a := env.write("a.css", ".x composes y from b.css")
	b := env.write("b.css", ".y composes z from c.css")
	c := env.write("c.css", ".z")
	other := env.write("other.css", ".w")

	require.NoError(t, env.session.Build(context.Background(), []domain.FileID{a, other}, 2))

	affected := env.session.Invalidate(c)
	assert.Equal(t, []domain.FileID{a, b, c}, affected)

	for _, id := range []domain.FileID{a, b, c} {
		_, ok := env.session.Cache().Get(id)
		assert.False(t, ok, id.String())
	}
	_, ok := env.session.Cache().Get(other)
	assert.True(t, ok, "unrelated files stay cached")

	env.write("c.css", ".z\n.extra")
	tokens, err := env.session.Load(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "_a__x _b__y _c__z", tokens["x"])

	for _, id := range []domain.FileID{a, b, c} {
		assert.Equal(t, 2, env.transformer.count(id), id.String())
	}
	assert.Equal(t, 1, env.transformer.count(other))
}

func TestInvalidate_Idempotent(t *testing.T) {
	env := setupSessionTest(t)
	a := env.write("a.css", ".x")

	_, err := env.session.Load(context.Background(), a)
	require.NoError(t, err)

	first := env.session.Invalidate(a)
	second := env.session.Invalidate(a)
	assert.Equal(t, first, second)
	assert.Equal(t, 0, env.session.Cache().Len())

	assert.Empty(t, env.session.Invalidate(env.id("never-seen.css")))
}

func TestInvalidate_CycleTerminates(t *testing.T) {
	env := setupSessionTest(t)
	a := env.write("a.css", ".x")
	b := env.write("b.css", ".y")

	require.NoError(t, env.session.Build(context.Background(), []domain.FileID{a, b}, 1))
	require.NoError(t, env.session.Graph().RecordEdges(a, []domain.FileID{b}))
	require.NoError(t, env.session.Graph().RecordEdges(b, []domain.FileID{a}))

	assert.Equal(t, []domain.FileID{b}, env.session.Graph().TransitiveDependants(a))
	assert.Equal(t, []domain.FileID{a, b}, env.session.Invalidate(a))
	assert.Equal(t, []domain.FileID{a, b}, env.session.Invalidate(b))
}

func TestInvalidate_RemovedImportStopsPropagation(t *testing.T) {
	env := setupSessionTest(t)
	a := env.write("a.css", ".x composes y from b.css")
	b := env.write("b.css", ".y")

	_, err := env.session.Load(context.Background(), a)
	require.NoError(t, err)

	env.write("a.css", ".x")
	env.session.Invalidate(a)
	_, err = env.session.Load(context.Background(), a)
	require.NoError(t, err)

	assert.Empty(t, env.session.Graph().Dependencies(a))
	assert.Equal(t, []domain.FileID{b}, env.session.Invalidate(b))
	_, ok := env.session.Cache().Get(a)
	assert.True(t, ok)
}

func TestInvalidatePaths(t *testing.T) {
	env := setupSessionTest(t)
	a := env.write("a.css", ".x composes y from b.css")
	b := env.write("b.css", ".y")
	c := env.write("c.css", ".z")

	require.NoError(t, env.session.Build(context.Background(), []domain.FileID{a, c}, 2))

	affected := env.session.InvalidatePaths([]string{b.String(), c.String(), env.id("README.md").String()})
	assert.Equal(t, []domain.FileID{a, b, c}, affected)
	assert.Equal(t, 0, env.session.Cache().Len())
}

func TestInvalidatePaths_FailedFilesAreAffected(t *testing.T) {
	env := setupSessionTest(t)
	a := env.write("a.css", ".x composes y from b.css")
	b := env.write("b.css", "@fail")

	_, err := env.session.Load(context.Background(), a)
	require.ErrorIs(t, err, domain.ErrTransform)
	require.Equal(t, 0, env.session.Cache().Len())

	env.write("b.css", ".y")
	assert.Equal(t, []domain.FileID{b}, env.session.InvalidatePaths([]string{b.String()}))
	assert.Equal(t, []domain.FileID{a}, env.session.InvalidatePaths([]string{a.String()}))

	tokens, err := env.session.Load(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "_a__x _b__y", tokens["x"])
}

func TestInvalidatePaths_Directory(t *testing.T) {
	env := setupSessionTest(t)
	a := env.write("a.css", ".x composes y from styles/b.css")
	b := env.write("styles/b.css", ".y")
	c := env.write("styles/nested/c.css", ".z")
	other := env.write("stylesheet.css", ".w")

	require.NoError(t, env.session.Build(context.Background(), []domain.FileID{a, c, other}, 2))

	affected := env.session.InvalidatePaths([]string{env.id("styles").String()})
	assert.Equal(t, []domain.FileID{a, b, c}, affected)

	_, ok := env.session.Cache().Get(other)
	assert.True(t, ok, "a sibling sharing the name prefix stays cached")
}

func TestInvalidate_RunningDependantDoesNotCommit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		env := setupSessionTest(t)
		a := env.write("a.css", ".x composes y from b.css\n.w composes z from c.css")
		b := env.write("b.css", ".y")
		c := env.write("c.css", ".z")
		release := env.transformer.gate(c)

		done := make(chan error)
		go func() {
			_, err := env.session.Load(context.Background(), a)
			done <- err
		}()

		// a has fetched b and is waiting on c; no edge to b is recorded yet.
		synctest.Wait()
		env.write("b.css", ".q")
		assert.Equal(t, []domain.FileID{a, b}, env.session.Invalidate(b))

		close(release)
		require.NoError(t, <-done)

		_, cached := env.session.Cache().Get(a)
		assert.False(t, cached, "a was compiled against the old b")

		tokens, err := env.session.Load(context.Background(), a)
		require.NoError(t, err)
		assert.Equal(t, "_a__x undefined", tokens["x"])
		assert.Equal(t, 2, env.transformer.count(a))
	})
}

func TestInvalidate_LaterFetchStartsFreshCompile(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		env := setupSessionTest(t)
		a := env.write("a.css", ".old")
		release := env.transformer.gate(a)

		first := make(chan domain.TokenMap)
		go func() {
			tokens, err := env.session.Load(context.Background(), a)
			assert.NoError(t, err)
			first <- tokens
		}()
		synctest.Wait()

		env.write("a.css", ".new")
		env.session.Invalidate(a)

		second := make(chan domain.TokenMap)
		go func() {
			tokens, err := env.session.Load(context.Background(), a)
			assert.NoError(t, err)
			second <- tokens
		}()
		synctest.Wait()
		assert.Equal(t, 2, env.transformer.count(a))

		close(release)
		assert.Equal(t, domain.TokenMap{"old": "_a__old"}, <-first)
		assert.Equal(t, domain.TokenMap{"new": "_a__new"}, <-second)

		entry, ok := env.session.Cache().Get(a)
		require.True(t, ok)
		assert.Equal(t, domain.TokenMap{"new": "_a__new"}, entry.Tokens)
	})
}
