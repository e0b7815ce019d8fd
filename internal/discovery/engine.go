package discovery

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mapcheck/internal/callsite"
	"mapcheck/internal/check"
	"mapcheck/internal/logging"
	"mapcheck/internal/registry"
)

var errUnknownMethod = errors.New("unrecognised chain method")

// Options configure an Engine.
type Options struct {
	// Workers bounds Phase-2 parallelism; zero means GOMAXPROCS.
	Workers int
	// Check is passed to every Checker built by the engine.
	Check check.Options
}

// Engine runs the two analysis phases.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

// New creates an engine. A nil logger discards all output.
func New(opts Options, logger *zap.Logger) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	return &Engine{opts: opts, logger: logging.OrNop(logger)}
}

// SiteResult is the verdict for one mapping call.
type SiteResult struct {
	Unit   string
	Call   callsite.MappingCall
	Result check.Result
}

// Run is the outcome of a full analysis.
type Run struct {
	ID       uuid.UUID
	Started  time.Time
	Duration time.Duration
	Rules    int
	Dropped  int
	Sites    []SiteResult
}

// Discover is Phase 1: it registers the rules of every configuration call in
// every unit and returns the frozen registry. Declarations that cannot be
// registered are dropped.
func (e *Engine) Discover(units ...callsite.Unit) *registry.Registry {
	reg, _ := e.discover(units)
	return reg
}

func (e *Engine) discover(units []callsite.Unit) (*registry.Registry, int) {
	reg := registry.New()
	dropped := 0

	for _, unit := range units {
		for _, cfg := range unit.ConfigCalls {
			for _, call := range cfg.Chain {
				if err := register(reg, cfg, call); err != nil {
					dropped++

					e.logger.Debug("dropped override declaration",
						zap.String("unit", unit.Name),
						zap.String("pair", callsite.PairLabel(cfg.Source, cfg.Dest)),
						zap.String("method", call.Method),
						zap.String("member", call.Member),
						zap.Stringer("location", call.Location),
						zap.Error(err),
					)
				}
			}
		}
	}

	reg.Freeze()

	e.logger.Info("discovery finished",
		zap.Int("units", len(units)),
		zap.Int("rules", reg.Len()),
		zap.Int("pairs", reg.Pairs()),
		zap.Int("dropped", dropped),
	)

	return reg, dropped
}

func register(reg *registry.Registry, cfg callsite.ConfigCall, call callsite.ChainCall) error {
	kind, ok := Classify(call.Method)
	if !ok {
		return fmt.Errorf("%w %q", errUnknownMethod, call.Method)
	}

	loc := call.Location
	if loc.IsZero() {
		loc = cfg.Location
	}

	rule := registry.Rule{
		Kind:     kind,
		Member:   call.Member,
		Expr:     call.Expr,
		Location: loc,
	}

	return reg.RegisterTypeLevel(cfg.Source, cfg.Dest, rule)
}

// Analyze is Phase 2: it checks every mapping call of every unit against the
// frozen registry. Results keep the order of the input. Cancelling ctx stops
// the remaining checks and returns ctx's error.
func (e *Engine) Analyze(ctx context.Context, reg *registry.Registry, units ...callsite.Unit) ([]SiteResult, error) {
	if !reg.Frozen() {
		return nil, errors.New("analyze requires a frozen registry")
	}

	var sites []SiteResult

	for _, unit := range units {
		for _, call := range unit.MappingCalls {
			sites = append(sites, SiteResult{Unit: unit.Name, Call: call})
		}
	}

	checker := check.NewChecker(reg, e.opts.Check)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i := range sites {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			site := &sites[i]
			site.Result = checker.Check(site.Call.Source, site.Call.Dest, site.Call.Excluded)

			e.logger.Debug("checked mapping call",
				zap.String("unit", site.Unit),
				zap.String("pair", site.Call.Pair()),
				zap.Stringer("location", site.Call.Location),
				zap.Int("issues", len(site.Result.MemberIssues)),
				zap.Bool("incompatible", site.Result.HasIncompatibilityIssue),
				zap.Bool("nullable", site.Result.HasNullabilityIssue),
			)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	return sites, nil
}

// Run executes Phase 1 and then Phase 2 over the same units.
func (e *Engine) Run(ctx context.Context, units ...callsite.Unit) (*Run, error) {
	run := &Run{ID: uuid.New(), Started: time.Now()}
	logger := e.logger.With(zap.Stringer("run", run.ID))

	logger.Info("analysis started", zap.Int("units", len(units)), zap.Int("workers", e.opts.Workers))

	phase := &Engine{opts: e.opts, logger: logger}

	reg, dropped := phase.discover(units)
	run.Rules, run.Dropped = reg.Len(), dropped

	sites, err := phase.Analyze(ctx, reg, units...)
	if err != nil {
		return nil, err
	}

	run.Sites = sites
	run.Duration = time.Since(run.Started)

	logger.Info("analysis finished", zap.Int("sites", len(sites)), zap.Duration("took", run.Duration))

	return run, nil
}
