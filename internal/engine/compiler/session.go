// Package compiler implements the incremental stylesheet compilation engine:
// the per-file cache, dependency tracking, invalidation and bundle assembly.
package compiler

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Session owns the compilation state of one process or watch session.
// Cache, graph and in-flight compiles persist across builds and are only
// cleared by Invalidate, Reset or Teardown.
type Session struct {
	transformer ports.Transformer
	resolver    ports.PathResolver
	reader      ports.SourceReader
	tracer      ports.Tracer
	logger      ports.Logger

	mu        sync.Mutex
	cache     *Cache
	graph     *domain.DependencyGraph
	flights   map[domain.FileID]*flight
	epochs    map[domain.FileID]uint64
	waitingOn map[domain.FileID]domain.FileID
	active    map[*frame]struct{}
	failed    map[domain.FileID]struct{}
	order     []domain.FileID
	ordered   map[domain.FileID]struct{}
	resets    uint64
	closed    bool
}

// flight is a compile in progress. Waiters block on done.
type flight struct {
	done  chan struct{}
	entry *domain.CacheEntry
	err   error
}

// NewSession creates an empty session.
func NewSession(
	transformer ports.Transformer,
	resolver ports.PathResolver,
	reader ports.SourceReader,
	tracer ports.Tracer,
	logger ports.Logger,
) *Session {
	return &Session{
		transformer: transformer,
		resolver:    resolver,
		reader:      reader,
		tracer:      tracer,
		logger:      logger,
		cache:       NewCache(),
		graph:       domain.NewDependencyGraph(),
		flights:     make(map[domain.FileID]*flight),
		epochs:      make(map[domain.FileID]uint64),
		waitingOn:   make(map[domain.FileID]domain.FileID),
		active:      make(map[*frame]struct{}),
		failed:      make(map[domain.FileID]struct{}),
		ordered:     make(map[domain.FileID]struct{}),
	}
}

// Cache exposes the compilation cache for inspection.
func (s *Session) Cache() *Cache {
	return s.cache
}

// Graph exposes the dependency graph for inspection.
func (s *Session) Graph() *domain.DependencyGraph {
	return s.graph
}

// Fetch resolves spec relative to from and returns the compiled tokens of the
// resulting file, compiling it on a cache miss.
func (s *Session) Fetch(ctx context.Context, spec string, from domain.FileID) (domain.FileID, domain.TokenMap, error) {
	id, err := s.resolver.Resolve(spec, from)
	if err != nil {
		return domain.FileID{}, nil, errors.Join(
			domain.ErrResolution,
			zerr.With(zerr.With(err, "spec", spec), "from", from.String()),
		)
	}

	entry, err := s.compile(ctx, id)
	if err != nil {
		return id, nil, err
	}
	return id, entry.Tokens.Clone(), nil
}

// Load compiles id if needed and returns its tokens.
func (s *Session) Load(ctx context.Context, id domain.FileID) (domain.TokenMap, error) {
	entry, err := s.compile(ctx, id)
	if err != nil {
		return nil, err
	}
	return entry.Tokens.Clone(), nil
}

// Build compiles every entry, running up to jobs compiles of different files at once.
// A failing entry does not stop its siblings; their results stay cached.
func (s *Session) Build(ctx context.Context, entries []domain.FileID, jobs int) error {
	if len(entries) == 0 {
		return domain.ErrNoEntries
	}

	ctx, span := s.tracer.Start(ctx, "build", ports.WithAttribute("modcss.entries", len(entries)))
	defer span.End()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for _, id := range dedupe(entries) {
		g.Go(func() error {
			if _, err := s.compile(ctx, id); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		err := errors.Join(append([]error{domain.ErrBuildFailed}, errs...)...)
		span.RecordError(err)
		return err
	}
	return nil
}

// Reset drops every cache entry, edge and ordering record.
// Compiles still running finish but do not commit.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Teardown resets the session and rejects any further use.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.closed = true
}

func (s *Session) resetLocked() {
	s.resets++
	s.cache.Clear()
	s.graph.Reset()
	clear(s.flights)
	clear(s.epochs)
	clear(s.waitingOn)
	clear(s.active)
	clear(s.failed)
	clear(s.ordered)
	s.order = nil
}

func (s *Session) compile(ctx context.Context, id domain.FileID) (*domain.CacheEntry, error) {
	chain := chainFrom(ctx)
	owner, nested := chainOwner(chain)
	parent := frameFrom(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if parent != nil {
		parent.deps[id] = struct{}{}
	}
	if entry, ok := s.cache.Get(id); ok {
		s.mu.Unlock()
		s.logger.Debug("cache hit " + id.String())
		return entry, nil
	}
	if s.blocksOn(id, chain) {
		s.mu.Unlock()
		return nil, errors.Join(domain.ErrCircularReference, zerr.With(zerr.New(cycleMessage(chain, id)), "file", id.String()))
	}

	f, running := s.flights[id]
	if !running {
		f = &flight{done: make(chan struct{})}
		s.flights[id] = f
	}
	if nested {
		s.waitingOn[owner] = id
		defer s.release(owner, id)
	}
	epoch, resets := s.epochs[id], s.resets
	var fr *frame
	if !running {
		fr = &frame{id: id, deps: make(map[domain.FileID]struct{})}
		s.active[fr] = struct{}{}
	}
	s.mu.Unlock()

	if running {
		select {
		case <-f.done:
			return f.entry, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	entry, err := s.run(withFrame(withChain(ctx, id), fr), id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, fr)
	if s.flights[id] == f {
		delete(s.flights, id)
	}
	current := !s.closed && s.resets == resets && s.epochs[id] == epoch
	if err == nil {
		err = s.commit(id, entry, epoch, resets)
	} else if current {
		// Failed files have no cache entry or edges; remember them so a
		// change to the file still counts as affecting the session.
		s.failed[id] = struct{}{}
	}
	if err != nil {
		entry = nil
	}
	f.entry, f.err = entry, err
	close(f.done)
	return entry, err
}

// blocksOn reports whether waiting for id would wait on a compile in chain.
// It follows the waits of in-flight compiles starting at id. Must hold s.mu.
func (s *Session) blocksOn(id domain.FileID, chain []domain.FileID) bool {
	visited := make(map[domain.FileID]struct{})
	cur := id
	for {
		if chainContains(chain, cur) {
			return true
		}
		if _, seen := visited[cur]; seen {
			return false
		}
		visited[cur] = struct{}{}
		next, ok := s.waitingOn[cur]
		if !ok {
			return false
		}
		cur = next
	}
}

func (s *Session) release(owner, id domain.FileID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waitingOn[owner] == id {
		delete(s.waitingOn, owner)
	}
}

func (s *Session) run(ctx context.Context, id domain.FileID) (*domain.CacheEntry, error) {
	ctx, span := s.tracer.Start(ctx, "compile", ports.WithAttribute("modcss.file", id.String()))
	defer span.End()

	src, err := s.reader.Read(id)
	if err != nil {
		err = errors.Join(domain.ErrRead, zerr.With(err, "file", id.String()))
		span.RecordError(err)
		return nil, err
	}

	fetch := func(ctx context.Context, spec string) (domain.FileID, domain.TokenMap, error) {
		return s.Fetch(ctx, spec, id)
	}

	res, err := s.transformer.Transform(ctx, src, fetch)
	if err != nil {
		err = errors.Join(domain.ErrTransform, zerr.With(err, "file", id.String()))
		span.RecordError(err)
		return nil, err
	}

	refs := dedupe(res.References)
	span.SetAttribute("modcss.references", len(refs))
	s.logger.Debug("compiled " + id.String())

	return &domain.CacheEntry{
		Tokens:     res.Tokens.Clone(),
		CSS:        res.CSS,
		Digest:     src.Digest,
		References: refs,
	}, nil
}

// commit stores a finished compile unless its file was invalidated or the
// session reset while it ran. Must hold s.mu.
func (s *Session) commit(id domain.FileID, entry *domain.CacheEntry, epoch, resets uint64) error {
	if s.closed || s.resets != resets || s.epochs[id] != epoch {
		s.logger.Debug("discarding stale compile of " + id.String())
		return nil
	}
	if err := s.graph.RecordEdges(id, entry.References); err != nil {
		return err
	}
	s.cache.Put(id, entry)
	delete(s.failed, id)
	if _, ok := s.ordered[id]; !ok {
		s.ordered[id] = struct{}{}
		s.order = append(s.order, id)
	}
	return nil
}

func cycleMessage(chain []domain.FileID, id domain.FileID) string {
	msg := ""
	for _, f := range chain {
		msg += f.String() + " -> "
	}
	return msg + id.String()
}

func dedupe(ids []domain.FileID) []domain.FileID {
	out := make([]domain.FileID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
