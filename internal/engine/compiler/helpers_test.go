package compiler_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/modcss/internal/core/ports/mocks"
	"go.trai.ch/modcss/internal/engine/compiler"
	"go.uber.org/mock/gomock"
)

// memFS serves stylesheets from memory and resolves specifiers relative to the importer.
type memFS struct {
	mu    sync.Mutex
	files map[domain.FileID]string
}

func (m *memFS) set(id domain.FileID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[id] = text
}

func (m *memFS) Resolve(spec string, from domain.FileID) (domain.FileID, error) {
	spec = domain.Unquote(spec)
	if spec == "" {
		return domain.FileID{}, errors.New("empty specifier")
	}
	if filepath.IsAbs(spec) {
		return domain.NewFileID(spec), nil
	}
	return domain.NewFileID(filepath.Join(from.Dir(), spec)), nil
}

func (m *memFS) Read(id domain.FileID) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.files[id]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return &domain.Source{ID: id, Text: text, Digest: xxhash.Sum64String(text)}, nil
}

// lineTransformer understands a tiny line based format:
//
//	.name                          exports a local class
//	.name composes other           composes a local class
//	.name composes other from spec composes a class of another file
//	@fail                          rejects the file
type lineTransformer struct {
	mu    sync.Mutex
	calls map[domain.FileID]int
	gates map[domain.FileID]chan struct{}
}

func newLineTransformer() *lineTransformer {
	return &lineTransformer{
		calls: make(map[domain.FileID]int),
		gates: make(map[domain.FileID]chan struct{}),
	}
}

// gate blocks transforms of id until the returned channel is closed.
func (l *lineTransformer) gate(id domain.FileID) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan struct{})
	l.gates[id] = ch
	return ch
}

func (l *lineTransformer) count(id domain.FileID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[id]
}

func scoped(id domain.FileID, name string) string {
	return "_" + strings.TrimSuffix(filepath.Base(id.String()), ".css") + "__" + name
}

func (l *lineTransformer) Transform(
	ctx context.Context,
	src *domain.Source,
	fetch ports.FetchFunc,
) (*ports.TransformResult, error) {
	l.mu.Lock()
	l.calls[src.ID]++
	gate := l.gates[src.ID]
	l.mu.Unlock()

	if gate != nil {
		<-gate
	}

	res := &ports.TransformResult{Tokens: domain.TokenMap{}}
	var css []string
	for _, line := range strings.Split(src.Text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "@fail" {
			return nil, errors.New("unexpected token")
		}
		name := strings.TrimPrefix(fields[0], ".")
		value := scoped(src.ID, name)
		css = append(css, "."+value+" {}")

		switch {
		case len(fields) == 5 && fields[1] == "composes" && fields[3] == "from":
			ref, imported, err := fetch(ctx, fields[4])
			if err != nil {
				return nil, err
			}
			res.References = append(res.References, ref)
			target, ok := imported[fields[2]]
			if !ok {
				target = "undefined"
			}
			value += " " + target
		case len(fields) == 3 && fields[1] == "composes":
			target, ok := res.Tokens[fields[2]]
			if !ok {
				target = "undefined"
			}
			value += " " + target
		}
		res.Tokens[name] = value
	}
	res.CSS = strings.Join(css, "\n")
	return res, nil
}

type sessionTestEnv struct {
	root        string
	fs          *memFS
	transformer *lineTransformer
	session     *compiler.Session
}

func (e *sessionTestEnv) id(rel string) domain.FileID {
	return domain.NewFileID(filepath.Join(e.root, rel))
}

func (e *sessionTestEnv) write(rel, text string) domain.FileID {
	id := e.id(rel)
	e.fs.set(id, text)
	return id
}

// setupSessionTest creates a session backed by memory files and quiet telemetry.
func setupSessionTest(t *testing.T) *sessionTestEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockSpan := mocks.NewMockSpan(ctrl)
	mockSpan.EXPECT().End().AnyTimes()
	mockSpan.EXPECT().RecordError(gomock.Any()).AnyTimes()
	mockSpan.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, mockSpan
		},
	).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	env := &sessionTestEnv{
		root:        t.TempDir(),
		fs:          &memFS{files: make(map[domain.FileID]string)},
		transformer: newLineTransformer(),
	}
	env.session = compiler.NewSession(env.transformer, env.fs, env.fs, tracer, logger)
	return env
}
