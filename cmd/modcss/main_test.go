package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modcss/internal/adapters/artifacts"
	"go.trai.ch/modcss/internal/adapters/fs"
	"go.trai.ch/modcss/internal/adapters/telemetry"
	"go.trai.ch/modcss/internal/adapters/transform"
	"go.trai.ch/modcss/internal/app"
	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newComponents(t *testing.T, root string) (*app.Components, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	cfg := domain.DefaultConfig(root)
	cfg.NameMode = domain.NameModeDev
	loader.EXPECT().Load(root).Return(cfg, nil).AnyTimes()

	a := app.New(
		loader,
		fs.NewEntryResolver(fs.NewWalker()),
		fs.NewResolver(),
		fs.NewReader(),
		transform.NewRegistry(),
		artifacts.NewStore(),
		mocks.NewMockWatcher(ctrl),
		telemetry.NewNoOpTracer(),
		log,
	)
	return &app.Components{App: a, Logger: log}, log
}

func TestRun_Success(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.css"), []byte(".a {}"), 0o600))
	components, _ := newComponents(t, root)

	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() { cleaned = true }, nil
	}

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"build", "-C", root, "a.css"}, stdout, stderr, provider)

	assert.Equal(t, 0, exitCode)
	assert.True(t, cleaned)
	_, err := os.Stat(filepath.Join(root, domain.DefaultCSSPath()))
	assert.NoError(t, err)
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ExecutionError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.css"), []byte(".a { composes: x from './gone.css'; }"), 0o600))
	components, log := newComponents(t, root)

	var logged error
	log.EXPECT().Error(gomock.Any()).Do(func(err error) { logged = err }).Times(1)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"build", "-C", root, "a.css"}, new(bytes.Buffer), new(bytes.Buffer), provider)

	assert.Equal(t, 1, exitCode)
	require.ErrorIs(t, logged, domain.ErrBuildFailed)
	_, err := os.Stat(filepath.Join(root, domain.DefaultCSSPath()))
	assert.True(t, os.IsNotExist(err))
}
