// Package sim owns the simulation clock and the single exclusive section
// that serializes clock ticks against ship state mutations. All rendering
// collaborators consume immutable Snapshots; nothing outside this package
// observes a half-updated mass distribution.
package sim

import (
	"fmt"
	"sync"

	"github.com/san-kum/shipsim/internal/hydro"
	"github.com/san-kum/shipsim/internal/motion"
	"github.com/san-kum/shipsim/internal/ship"
	"github.com/san-kum/shipsim/internal/wave"
)

// Config fixes the integration step and display parameters for a session.
type Config struct {
	Dt               float64 // fixed integration substep, seconds
	DampingRatio     float64 // fraction of critical damping per DOF
	WindowSeconds    float64 // response amplitude rolling window
	ProfileHalfWidth float64 // wave display window half-width, metres
	ProfileSamples   int
	UseRK4           bool
}

func DefaultConfig() Config {
	return Config{
		Dt:               0.05,
		DampingRatio:     0.1,
		WindowSeconds:    60,
		ProfileHalfWidth: 100,
		ProfileSamples:   120,
	}
}

// Snapshot is the read-only bundle handed to rendering collaborators.
// Every field is a copy; holding a Snapshot never blocks the simulation.
type Snapshot struct {
	Time        float64                     `json:"time"`
	Ship        ship.Summary                `json:"ship"`
	Hydro       hydro.Coefficients          `json:"hydro"`
	GZ          *hydro.Curve                `json:"gz"`
	Motion      [motion.NumDOF]motion.State `json:"motion"`
	Amplitudes  [motion.NumDOF]float64      `json:"amplitudes"`
	WaveProfile []float64                   `json:"wave_profile"`
	Elevation   float64                     `json:"elevation"` // surface at the ship reference position
	Sea         wave.Summary                `json:"sea"`
	MotionReset bool                        `json:"motion_reset"`
}

// Orchestrator couples the wave field, the motion integrator and the
// hydrostatics cache under one mutex and one clock.
type Orchestrator struct {
	mu sync.Mutex

	cfg    Config
	state  *ship.State
	engine *hydro.Engine
	field  *wave.Field
	motion *motion.Simulator

	clock   float64
	tunedAt uint64
	carry   float64 // wall time not yet consumed by a full substep
}

// New wires a session together. The configured timestep is checked against
// the stiffness of the initial state; an unstable configuration is rejected
// here, not discovered as diverging output.
func New(state *ship.State, field *wave.Field, cfg Config) (*Orchestrator, error) {
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt %f", motion.ErrTimestepTooLarge, cfg.Dt)
	}

	var stepper motion.Stepper = motion.NewSemiImplicitEuler()
	if cfg.UseRK4 {
		stepper = motion.NewRK4()
	}

	o := &Orchestrator{
		cfg:    cfg,
		state:  state,
		engine: hydro.NewEngine(),
		field:  field,
		motion: motion.NewSimulator(stepper, cfg.DampingRatio, cfg.WindowSeconds),
	}

	coeffs, err := o.engine.Coefficients(state)
	if err != nil {
		return nil, err
	}
	o.motion.Tune(state, coeffs)
	o.tunedAt = state.Version()

	if err := o.motion.ValidateTimestep(cfg.Dt); err != nil {
		return nil, err
	}
	return o, nil
}

// Tick advances the simulation clock by wallDt, stepping the motion
// integrator in fixed substeps, and returns the resulting snapshot.
// Hydrostatics are recomputed first when the ship version moved since the
// last tick, so the stiffness used this tick is current.
func (o *Orchestrator) Tick(wallDt float64) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if wallDt < 0 {
		return Snapshot{}, fmt.Errorf("sim: negative tick %f", wallDt)
	}

	reset, err := o.retune()
	if err != nil {
		return Snapshot{}, err
	}

	o.carry += wallDt
	for o.carry >= o.cfg.Dt {
		o.motion.Step(o.clock, o.cfg.Dt, o.field)
		o.clock += o.cfg.Dt
		o.carry -= o.cfg.Dt
	}

	snap, err := o.snapshotLocked()
	if err != nil {
		return Snapshot{}, err
	}
	snap.MotionReset = reset
	return snap, nil
}

// Snapshot returns the current state without advancing the clock.
func (o *Orchestrator) Snapshot() (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.retune(); err != nil {
		return Snapshot{}, err
	}
	return o.snapshotLocked()
}

// retune refreshes hydrostatics and motion stiffness after a mutation.
// Caller holds the lock.
func (o *Orchestrator) retune() (bool, error) {
	if o.state.Version() == o.tunedAt {
		return false, nil
	}
	coeffs, err := o.engine.Coefficients(o.state)
	if err != nil {
		return false, err
	}
	reset := o.motion.Tune(o.state, coeffs)
	o.tunedAt = o.state.Version()
	if err := o.motion.ValidateTimestep(o.cfg.Dt); err != nil {
		return reset, err
	}
	return reset, nil
}

func (o *Orchestrator) snapshotLocked() (Snapshot, error) {
	coeffs, err := o.engine.Coefficients(o.state)
	if err != nil {
		return Snapshot{}, err
	}
	curve, err := o.engine.Curve(o.state)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Time:       o.clock,
		Ship:       o.state.Summarize(),
		Hydro:      coeffs,
		GZ:         curve.Clone(),
		Motion:     o.motion.States(),
		Amplitudes: o.motion.Amplitudes(),
	}
	if o.field != nil {
		snap.WaveProfile = o.field.Profile(o.clock, o.cfg.ProfileHalfWidth, o.cfg.ProfileSamples)
		snap.Elevation = o.field.Elevation(o.clock, 0)
		snap.Sea = o.field.Summary()
	}
	return snap, nil
}

// Clock returns the current simulation time.
func (o *Orchestrator) Clock() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clock
}

// AddCargo, RemoveCargo, MoveCargo and SetBallastFill apply a ship mutation
// inside the exclusive section. Validation failures leave everything
// untouched, including the hydrostatics cache.

func (o *Orchestrator) AddCargo(label string, mass, longPos, vertPos float64) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.AddCargo(label, mass, longPos, vertPos)
}

func (o *Orchestrator) RemoveCargo(id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.RemoveCargo(id)
}

func (o *Orchestrator) MoveCargo(id int, longPos, vertPos float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.MoveCargo(id, longPos, vertPos)
}

func (o *Orchestrator) SetBallastFill(tankID string, fill float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.SetBallastFill(tankID, fill)
}

// SetSeaState replaces the wave field, serialized like any other mutation.
func (o *Orchestrator) SetSeaState(f *wave.Field) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.field = f
}
