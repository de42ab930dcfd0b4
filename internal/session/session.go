package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/lsys/internal/ir"
	"github.com/roach88/lsys/internal/logging"
	"github.com/roach88/lsys/internal/lsystem"
	"github.com/roach88/lsys/internal/store"
)

// Session steps an engine and remembers every generation it produced.
//
// INVARIANTS:
//   - history[0] is the axiom
//   - history[i+1] is eng.Step() applied to history[i]
//   - the engine's current generation is history[len(history)-1]
//   - 0 <= cursor < len(history)
type Session struct {
	mu sync.Mutex

	spec     ir.SystemSpec
	specHash string
	eng      *lsystem.Engine[string]

	store  *store.Store
	ids    RunIDGenerator
	clock  Sequencer
	quota  Quota
	logger *slog.Logger

	runID     string
	persisted int // generations of the current run already written
	history   [][]string
	cursor    int
}

// Option configures a Session.
type Option func(*Session)

// WithStore records every derived generation in st.
func WithStore(st *store.Store) Option {
	return func(s *Session) {
		s.store = st
	}
}

// WithRunIDGenerator sets the run ID generator.
// Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(s *Session) {
		s.ids = g
	}
}

// WithClock sets the logical clock for run seq numbers.
// Default: a Clock resuming after the store's highest seq.
func WithClock(c Sequencer) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithQuota sets the derivation limits. A zero value disables a limit.
// Default: DefaultQuota().
func WithQuota(maxGenerations, maxSymbols int) Option {
	return func(s *Session) {
		s.quota = Quota{MaxGenerations: maxGenerations, MaxSymbols: maxSymbols}
	}
}

// WithLogger sets the logger. Default: logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session for eng, which must have been built from spec.
// The engine is reset so the session starts at the axiom.
func New(spec ir.SystemSpec, eng *lsystem.Engine[string], opts ...Option) (*Session, error) {
	if eng == nil {
		return nil, fmt.Errorf("session: nil engine")
	}
	specHash, err := ir.SpecHash(spec)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		spec:     spec,
		specHash: specHash,
		eng:      eng,
		ids:      UUIDv7Generator{},
		quota:    DefaultQuota(),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.restart()
	return s, nil
}

// restart resets the engine and begins a new run. Caller holds mu or owns s.
func (s *Session) restart() {
	s.eng.Reset()
	s.history = [][]string{s.eng.Current()}
	s.cursor = 0
	s.runID = s.ids.Generate()
	s.persisted = 0
}

// RunID returns the identifier of the current run.
func (s *Session) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Forward moves to the next generation and returns a copy of it.
//
// At the newest generation the engine is stepped, subject to the quota;
// otherwise the cursor advances through cached history. A quota error
// leaves the session unchanged. A store error is returned after the
// generation has been derived; Save retries the write.
func (s *Session) Forward(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor < len(s.history)-1 {
		s.cursor++
		return slices.Clone(s.history[s.cursor]), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	newest := len(s.history) - 1
	if err := s.quota.check(s.spec.Name, newest, s.eng.NextLen()); err != nil {
		s.logger.Warn("derivation quota exceeded",
			"system", s.spec.Name,
			"run_id", s.runID,
			"error", err,
		)
		return nil, err
	}

	next := s.eng.Step()
	s.history = append(s.history, next)
	s.cursor = len(s.history) - 1

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.logger.Debug("generation derived",
		"system", s.spec.Name,
		"run_id", s.runID,
		"generation", s.cursor,
		"length", len(next),
	)
	return slices.Clone(next), nil
}

// Back moves to the previous generation and returns a copy of it.
// At generation 0 it stays put.
func (s *Session) Back() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor > 0 {
		s.cursor--
	}
	return slices.Clone(s.history[s.cursor])
}

// Current returns a copy of the generation at the cursor.
func (s *Session) Current() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history[s.cursor])
}

// Index returns the generation number at the cursor. The axiom is 0.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// History returns copies of every generation derived so far.
func (s *Session) History() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]string, len(s.history))
	for i, gen := range s.history {
		out[i] = slices.Clone(gen)
	}
	return out
}

// Reset discards the history, rewinds the engine to the axiom, and starts
// a new run.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	prev := s.runID
	s.restart()
	s.logger.Debug("session reset",
		"system", s.spec.Name,
		"previous_run_id", prev,
		"run_id", s.runID,
	)
	return nil
}

// Run moves forward n times and returns the generations visited.
// On error the generations reached so far are returned with it.
func (s *Session) Run(ctx context.Context, n int) ([][]string, error) {
	out := make([][]string, 0, max(n, 0))
	for range n {
		gen, err := s.Forward(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, gen)
	}
	return out, nil
}

// Save writes every not yet persisted generation of the current run,
// including the axiom. A no-op without a store.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

// persist writes the run record on first use and appends any generations
// not yet stored. Caller holds mu.
func (s *Session) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	if s.persisted == 0 {
		if s.clock == nil {
			maxSeq, err := s.store.MaxSeq(ctx)
			if err != nil {
				return fmt.Errorf("persist run %s: %w", s.runID, err)
			}
			s.clock = NewClockAt(maxSeq)
		}
		run := ir.Run{
			ID:            s.runID,
			System:        s.spec.Name,
			SpecHash:      s.specHash,
			Seq:           s.clock.Next(),
			EngineVersion: ir.EngineVersion,
			IRVersion:     ir.IRVersion,
		}
		if err := s.store.WriteRun(ctx, run); err != nil {
			return fmt.Errorf("persist run %s: %w", s.runID, err)
		}
	}

	for idx := s.persisted; idx < len(s.history); idx++ {
		gen, err := ir.NewGeneration(s.runID, idx, s.history[idx])
		if err != nil {
			return fmt.Errorf("persist generation %d: %w", idx, err)
		}
		if _, err := s.store.WriteGeneration(ctx, gen); err != nil {
			return fmt.Errorf("persist generation %d: %w", idx, err)
		}
		s.persisted = idx + 1
	}
	return nil
}
