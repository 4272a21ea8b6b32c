package search

import (
	"context"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/wsnlife/core/coverage"
	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/logger"
	"github.com/kilianp07/wsnlife/core/monitoring"
	"github.com/kilianp07/wsnlife/core/schedule"
)

// trialsPerWorker sizes a batch so workers stay busy between reductions.
const trialsPerWorker = 16

// Stats summarises a run.
type Stats struct {
	Trials           int           `json:"trials"`
	Improvements     int           `json:"improvements"`
	AcceptedEqual    int           `json:"accepted_equal"`
	AcceptedWorse    int           `json:"accepted_worse"`
	Rejected         int           `json:"rejected"`
	MeanLifetime     float64       `json:"mean_lifetime"`
	StdDevLifetime   float64       `json:"stddev_lifetime"`
	MaxLifetime      int           `json:"max_lifetime"`
	FinalTemperature float64       `json:"final_temperature"`
	Elapsed          time.Duration `json:"elapsed"`
}

// Result is the schedule adopted last, with its lifetime and trace.
type Result struct {
	Lifetime    int               `json:"lifetime"`
	Steps       schedule.Schedule `json:"steps"`
	Trace       schedule.Trace    `json:"trace"`
	Seed        int64             `json:"seed"`
	Stats       Stats             `json:"stats"`
	Interrupted bool              `json:"interrupted"`
}

// Option customises a Searcher.
type Option func(*Searcher)

// WithObserver registers a callback receiving every TrialEvent in index order.
// It runs on the goroutine calling Run.
func WithObserver(fn func(TrialEvent)) Option {
	return func(s *Searcher) { s.observer = fn }
}

// Searcher runs the repeated-trial search.
type Searcher struct {
	cfg      Config
	log      logger.Logger
	observer func(TrialEvent)
}

// New returns a Searcher. Zero config values take their defaults.
func New(cfg Config, log logger.Logger, opts ...Option) (*Searcher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Searcher{cfg: cfg, log: logger.OrNop(log)}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Config returns the effective configuration.
func (s *Searcher) Config() Config { return s.cfg }

// FindBestSchedule runs a search with the reference parameters and returns
// the best lifetime and its per-step trace.
func FindBestSchedule(ctx context.Context, f *field.Field) (int, schedule.Trace) {
	s, _ := New(DefaultConfig(), nil)
	res := s.Run(ctx, f)
	return res.Lifetime, res.Trace
}

// Run performs the seed trial plus cfg.Iterations further trials. It never
// fails: a field without any covering subset yields lifetime 0. When ctx ends
// early the best result so far is returned with Interrupted set.
func (s *Searcher) Run(ctx context.Context, f *field.Field) Result {
	start := time.Now()
	if s.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cov := coverage.Build(f)
	builder := schedule.NewBuilder(cov, s.cfg.ActivationProbability)
	total := s.cfg.Iterations + 1
	s.log.Infof("search start: %d live sensors, %d targets, %d trials, %d workers, seed %d",
		len(cov.Sensors()), cov.TargetCount(), total, s.cfg.Workers, seed)

	r := reducer{
		cfg:         s.cfg,
		acceptRng:   rand.New(rand.NewSource(acceptSeed(seed))),
		temperature: s.cfg.InitialTemperature,
		lifetimes:   make([]float64, 0, total),
		observer:    s.observer,
		log:         s.log,
	}
	interrupted := false
	batch := s.cfg.Workers * trialsPerWorker
	if s.cfg.Workers == 1 {
		batch = 1
	}
	for next := 0; next < total; {
		n := min(batch, total-next)
		results := s.runBatch(ctx, f, builder, seed, next, n)
		for i, res := range results {
			r.add(next+i, res)
		}
		next += len(results)
		if len(results) < n {
			interrupted = true
			break
		}
	}

	out := r.result()
	out.Seed = seed
	out.Interrupted = interrupted
	out.Stats.Elapsed = time.Since(start)
	if interrupted {
		s.log.Warnf("search interrupted after %d of %d trials: %v", out.Stats.Trials, total, ctx.Err())
	}
	s.log.Infof("search done: lifetime %d (%d steps) after %d trials in %s, %d improvements, %d worse accepted",
		out.Lifetime, len(out.Steps), out.Stats.Trials, out.Stats.Elapsed, out.Stats.Improvements, out.Stats.AcceptedWorse)
	return out
}

// runBatch evaluates trials [first, first+n). It returns the longest prefix of
// completed trials; a shorter slice means ctx ended.
func (s *Searcher) runBatch(ctx context.Context, f *field.Field, b schedule.Builder, seed int64, first, n int) []schedule.Result {
	if s.cfg.Workers == 1 {
		out := make([]schedule.Result, 0, n)
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				return out
			}
			out = append(out, s.trial(f, b, seed, first+i))
		}
		return out
	}

	results := make([]schedule.Result, n)
	done := make([]bool, n)
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			defer func() { monitoring.Report(recover()) }()
			if ctx.Err() != nil {
				return nil
			}
			results[i] = s.trial(f, b, seed, first+i)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()
	for i, ok := range done {
		if !ok {
			return results[:i]
		}
	}
	return results
}

func (s *Searcher) trial(f *field.Field, b schedule.Builder, seed int64, index int) schedule.Result {
	rng := rand.New(rand.NewSource(trialSeed(seed, index)))
	return schedule.Evaluate(f, b.Build(rng), s.cfg.BatteryDuration)
}

// reducer applies the adoption rule in trial-index order.
type reducer struct {
	cfg         Config
	acceptRng   *rand.Rand
	temperature float64
	best        schedule.Result
	stats       Stats
	lifetimes   []float64
	observer    func(TrialEvent)
	log         logger.Logger
}

func (r *reducer) add(index int, res schedule.Result) {
	r.stats.Trials++
	r.lifetimes = append(r.lifetimes, float64(res.Lifetime))
	if res.Lifetime > r.stats.MaxLifetime {
		r.stats.MaxLifetime = res.Lifetime
	}

	temp := r.temperature
	var d Decision
	switch {
	case index == 0:
		d = DecisionSeed
	case res.Lifetime > r.best.Lifetime:
		d = DecisionImproved
		r.stats.Improvements++
	default:
		u := r.acceptRng.Float64()
		delta := float64(res.Lifetime - r.best.Lifetime)
		switch {
		case !accept(delta, temp, u):
			d = DecisionRejected
			r.stats.Rejected++
		case delta == 0:
			d = DecisionAcceptedEqual
			r.stats.AcceptedEqual++
		default:
			d = DecisionAcceptedWorse
			r.stats.AcceptedWorse++
		}
	}
	if index > 0 {
		r.temperature *= r.cfg.CoolingRate
	}

	if d.Adopted() {
		if d == DecisionImproved || d == DecisionAcceptedWorse {
			r.log.Debugw("trial adopted", map[string]any{
				"trial":       index,
				"lifetime":    res.Lifetime,
				"previous":    r.best.Lifetime,
				"decision":    d.String(),
				"temperature": temp,
			})
		}
		r.best = res
	}
	if r.observer != nil {
		r.observer(TrialEvent{Index: index, Lifetime: res.Lifetime, Best: r.best.Lifetime, Temperature: temp, Decision: d})
	}
}

func (r *reducer) result() Result {
	st := r.stats
	st.FinalTemperature = r.temperature
	switch len(r.lifetimes) {
	case 0:
	case 1:
		st.MeanLifetime = r.lifetimes[0]
	default:
		st.MeanLifetime, st.StdDevLifetime = stat.MeanStdDev(r.lifetimes, nil)
	}
	return Result{Lifetime: r.best.Lifetime, Steps: r.best.Steps, Trace: r.best.Trace, Stats: st}
}

// accept decides whether a non-improving trial replaces the best. delta is
// lifetime minus best (never positive here) and u a uniform draw in [0,1).
func accept(delta, temperature, u float64) bool {
	if delta >= 0 {
		return true
	}
	if !(temperature > 0) {
		return false
	}
	return u < math.Exp(delta/temperature)
}

func trialSeed(seed int64, index int) int64 {
	return int64(splitmix64(uint64(seed) + uint64(index+1)*0x9e3779b97f4a7c15))
}

func acceptSeed(seed int64) int64 {
	return int64(splitmix64(uint64(seed) ^ 0x5851f42d4c957f2d))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
