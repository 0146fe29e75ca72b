// Package edge compares a model-computed outcome distribution against the
// market-implied one and grades the divergence. The engine only detects
// and surfaces value; it never sizes or places anything.
package edge

import (
	"math"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/model"
	"github.com/fortuna/vantage/internal/odds"
)

// Config tunes the engine. Cut points are policy, not contract, but must
// stay monotonic.
type Config struct {
	// MinEdge is the low-confidence threshold in percentage points. The
	// largest diff at or below it classifies as none: a false value
	// signal is worse than reporting none.
	MinEdge float64

	// LowMax and MediumMax bound the low and medium strength buckets.
	LowMax    float64
	MediumMax float64

	// Sharpness weights bookmakers in (0,1]; 1 is the sharpest. Books
	// not listed weigh DefaultSharpness.
	Sharpness map[string]float64

	// DefaultSharpness applies to unlisted books.
	DefaultSharpness float64
}

// DefaultConfig returns the default thresholds and book weights.
func DefaultConfig() *Config {
	return &Config{
		MinEdge:   3.0,
		LowMax:    5.0,
		MediumMax: 10.0,
		Sharpness: map[string]float64{
			"pinnacle":    1.0,
			"betfair_ex":  0.95,
			"circa":       0.95,
			"bet365":      0.8,
			"williamhill": 0.75,
			"draftkings":  0.7,
			"fanduel":     0.7,
		},
		DefaultSharpness: 0.6,
	}
}

// Engine computes value edges. Safe for concurrent use; it holds no
// mutable state.
type Engine struct {
	cfg *Config
}

// New creates an engine, filling unset config fields with defaults.
func New(cfg *Config) *Engine {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.MinEdge == 0 {
		cfg.MinEdge = defaults.MinEdge
	}
	if cfg.LowMax == 0 {
		cfg.LowMax = defaults.LowMax
	}
	if cfg.MediumMax == 0 {
		cfg.MediumMax = defaults.MediumMax
	}
	if cfg.Sharpness == nil {
		cfg.Sharpness = defaults.Sharpness
	}
	if cfg.DefaultSharpness == 0 {
		cfg.DefaultSharpness = defaults.DefaultSharpness
	}
	return &Engine{cfg: cfg}
}

// sumTolerance allows for rounding in upstream probability triples.
const sumTolerance = 3.0

func validDistribution(p model.Probability) bool {
	if p.Home < 0 || p.Home > 100 || p.Away < 0 || p.Away > 100 {
		return false
	}
	if p.Draw != nil && (*p.Draw < 0 || *p.Draw > 100) {
		return false
	}
	return math.Abs(p.Sum()-100) <= sumTolerance
}

// ComputeEdge grades the divergence between the model and market-implied
// distributions. Both must cover the same outcomes: a two-way model
// against a three-way market (or the reverse) is a caller error, not
// something to guess around.
func (e *Engine) ComputeEdge(modelProb, implied model.Probability) (model.ValueEdge, error) {
	if modelProb.Sum() == 0 || implied.Sum() == 0 {
		return model.ValueEdge{}, adapter.InvalidQuery("model and implied probabilities are both required")
	}
	if !validDistribution(modelProb) {
		return model.ValueEdge{}, adapter.InvalidQuery("model probability is not a valid distribution (sum %.1f)", modelProb.Sum())
	}
	if !validDistribution(implied) {
		return model.ValueEdge{}, adapter.InvalidQuery("implied probability is not a valid distribution (sum %.1f)", implied.Sum())
	}
	if (modelProb.Draw == nil) != (implied.Draw == nil) {
		return model.ValueEdge{}, adapter.InvalidQuery("model and implied probabilities disagree on the draw outcome")
	}

	best := model.OutcomeNone
	bestDiff := 0.0

	consider := func(outcome model.Outcome, diff float64) {
		if diff > bestDiff {
			best = outcome
			bestDiff = diff
		}
	}
	consider(model.OutcomeHome, modelProb.Home-implied.Home)
	consider(model.OutcomeAway, modelProb.Away-implied.Away)
	if modelProb.Draw != nil {
		consider(model.OutcomeDraw, *modelProb.Draw-*implied.Draw)
	}

	if bestDiff <= e.cfg.MinEdge {
		return model.ValueEdge{Outcome: model.OutcomeNone, EdgePercent: bestDiff, Strength: model.StrengthNone}, nil
	}

	return model.ValueEdge{
		Outcome:     best,
		EdgePercent: bestDiff,
		Strength:    e.bucket(bestDiff),
	}, nil
}

// ComputeMarketEdge aggregates several books' normalized moneylines into
// one implied distribution, computes the edge against it, and discounts
// the result by the sharpness of the best book that quoted. A signal built
// only from soft books counts less than one a sharp book confirms.
func (e *Engine) ComputeMarketEdge(modelProb model.Probability, books []odds.BookIntel) (model.ValueEdge, error) {
	implied, ok := odds.AggregateMoneyline(books, e.cfg.Sharpness)
	if !ok {
		return model.ValueEdge{}, adapter.InvalidQuery("no bookmaker quoted a moneyline")
	}

	signal, err := e.ComputeEdge(modelProb, implied)
	if err != nil {
		return model.ValueEdge{}, err
	}
	if signal.Outcome == model.OutcomeNone {
		return signal, nil
	}

	factor := e.bestSharpness(books)
	signal.EdgePercent *= factor
	if signal.EdgePercent <= e.cfg.MinEdge {
		return model.ValueEdge{Outcome: model.OutcomeNone, EdgePercent: signal.EdgePercent, Strength: model.StrengthNone}, nil
	}
	signal.Strength = e.bucket(signal.EdgePercent)
	return signal, nil
}

func (e *Engine) bestSharpness(books []odds.BookIntel) float64 {
	best := 0.0
	for _, b := range books {
		if b.Moneyline == nil {
			continue
		}
		w := e.cfg.DefaultSharpness
		if s, ok := e.cfg.Sharpness[b.Bookmaker]; ok && s > 0 {
			w = s
		}
		if w > best {
			best = w
		}
	}
	if best == 0 {
		return e.cfg.DefaultSharpness
	}
	return best
}

// bucket maps an edge above MinEdge onto a strength grade.
func (e *Engine) bucket(edge float64) model.Strength {
	switch {
	case edge <= e.cfg.MinEdge:
		return model.StrengthNone
	case edge <= e.cfg.LowMax:
		return model.StrengthLow
	case edge <= e.cfg.MediumMax:
		return model.StrengthMedium
	default:
		return model.StrengthHigh
	}
}
