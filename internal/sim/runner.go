package sim

import (
	"context"
	"math"

	"github.com/san-kum/shipsim/internal/motion"
)

// Result summarizes a batch run.
type Result struct {
	Duration   float64
	Steps      int
	MaxHeave   float64
	MaxRollDeg float64
	MaxPitch   float64
	Samples    int
}

// Run drives the orchestrator for a fixed duration in integration-sized
// ticks, invoking observe every sampleEvery seconds of simulated time.
// Observe may be nil. Cancellation via ctx returns the partial result.
func (o *Orchestrator) Run(ctx context.Context, duration, sampleEvery float64, observe func(Snapshot) error) (*Result, error) {
	res := &Result{}
	if sampleEvery <= 0 {
		sampleEvery = o.cfg.Dt
	}

	steps := int(math.Round(duration / o.cfg.Dt))
	nextSample := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		snap, err := o.Tick(o.cfg.Dt)
		if err != nil {
			return res, err
		}
		elapsed := float64(i+1) * o.cfg.Dt
		res.Steps++
		res.Duration = elapsed

		if h := math.Abs(snap.Motion[motion.Heave].Displacement); h > res.MaxHeave {
			res.MaxHeave = h
		}
		if r := math.Abs(snap.Motion[motion.Roll].Displacement) * 180 / math.Pi; r > res.MaxRollDeg {
			res.MaxRollDeg = r
		}
		if p := math.Abs(snap.Motion[motion.Pitch].Displacement); p > res.MaxPitch {
			res.MaxPitch = p
		}

		if elapsed+1e-9 >= nextSample {
			if observe != nil {
				if err := observe(snap); err != nil {
					return res, err
				}
			}
			res.Samples++
			nextSample += sampleEvery
		}
	}
	return res, nil
}
