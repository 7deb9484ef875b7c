package transform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modcss/internal/adapters/transform"
	"go.trai.ch/modcss/internal/core/domain"
)

func TestRegistry_New(t *testing.T) {
	r := transform.NewRegistry()
	assert.Equal(t, []string{"modules", "passthrough"}, r.Names())

	tr, err := r.New(&domain.Config{Root: root, NameMode: domain.NameModeDev})
	require.NoError(t, err)
	assert.IsType(t, &transform.Modules{}, tr)

	tr, err = r.New(&domain.Config{Root: root, NameMode: domain.NameModeDev, Pipeline: transform.PassthroughPipeline})
	require.NoError(t, err)
	assert.IsType(t, transform.Passthrough{}, tr)
}

func TestRegistry_Errors(t *testing.T) {
	r := transform.NewRegistry()

	_, err := r.New(&domain.Config{Root: root, Pipeline: "sass"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnknownPipeline.Error())

	_, err = r.New(&domain.Config{Root: root, NameMode: "fancy"})
	require.Error(t, err)
}

func TestPassthrough_Transform(t *testing.T) {
	src := &domain.Source{ID: at("a.css"), Text: ".a { composes: b from \"./b.css\"; }"}

	res, err := transform.Passthrough{}.Transform(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, src.Text, res.CSS)
	assert.Empty(t, res.Tokens)
	assert.Empty(t, res.References)
}
