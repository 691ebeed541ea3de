package motion

import (
	"fmt"
	"math"

	"github.com/san-kum/shipsim/internal/hydro"
	"github.com/san-kum/shipsim/internal/ship"
	"github.com/san-kum/shipsim/internal/wave"
)

const (
	// Fraction of the scheme's ω·dt < 2 stability limit that a configured
	// timestep may use.
	stabilityMargin = 0.5

	// Relative change in GM or displacement that forces a reset to rest
	// instead of carrying integrator state across a stiffness jump.
	retuneTolerance = 1e-3
)

// Simulator owns the MotionState of the three degrees of freedom. It is
// retuned from hydrostatics whenever the mass distribution changes and
// stepped by the orchestrator under its exclusive section.
type Simulator struct {
	stepper      Stepper
	dampingRatio float64

	osc    [NumDOF]Oscillator
	states [NumDOF]State
	window [NumDOF]*peakWindow

	tuned    bool
	lastGM   float64
	lastDisp float64
}

// NewSimulator builds an untuned simulator. dampingRatio is the configured
// fraction of critical damping applied to every DOF.
func NewSimulator(stepper Stepper, dampingRatio, windowSeconds float64) *Simulator {
	m := &Simulator{stepper: stepper, dampingRatio: dampingRatio}
	for d := range m.window {
		m.window[d] = newPeakWindow(windowSeconds)
	}
	return m
}

// Tune derives stiffness, inertia and damping for each DOF from the current
// ship state and hydrostatics. When a stiffness-relevant quantity moved more
// than the tolerance since the last tune, integrator state is reset to rest;
// the returned flag reports that.
func (m *Simulator) Tune(s *ship.State, c hydro.Coefficients) bool {
	h := s.Hull()
	disp := s.Displacement()

	heaveK := ship.RhoWater * ship.Gravity * c.WaterplaneArea
	m.osc[Heave] = m.damped(Oscillator{Mass: disp, Stiffness: heaveK})

	rollGM := math.Max(c.GM, 0.05) // keep a marginally stable hull integrable
	kr := 0.4 * h.Beam
	m.osc[Roll] = m.damped(Oscillator{
		Mass:      disp * kr * kr,
		Stiffness: disp * ship.Gravity * rollGM,
	})

	pitchGML := math.Max(c.GML, 0.05)
	kp := 0.25 * h.Length
	m.osc[Pitch] = m.damped(Oscillator{
		Mass:      disp * kp * kp,
		Stiffness: disp * ship.Gravity * pitchGML,
	})

	reset := m.tuned &&
		(relDiff(c.GM, m.lastGM) > retuneTolerance || relDiff(disp, m.lastDisp) > retuneTolerance)
	if reset {
		m.Reset()
	}
	m.tuned = true
	m.lastGM = c.GM
	m.lastDisp = disp
	return reset
}

func (m *Simulator) damped(o Oscillator) Oscillator {
	o.Damping = m.dampingRatio * o.CriticalDamping()
	return o
}

func relDiff(a, b float64) float64 {
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 0
	}
	return math.Abs(a-b) / denom
}

// MaxNaturalFrequency is the stiffest mode, rad/s.
func (m *Simulator) MaxNaturalFrequency() float64 {
	max := 0.0
	for _, o := range m.osc {
		if w := o.NaturalFrequency(); w > max {
			max = w
		}
	}
	return max
}

// ValidateTimestep rejects a dt the integrator cannot hold stable for the
// currently tuned stiffness range. Called at configuration time so that an
// unstable setup fails loudly instead of producing diverging output.
func (m *Simulator) ValidateTimestep(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrTimestepTooLarge, dt)
	}
	wMax := m.MaxNaturalFrequency()
	if wMax == 0 {
		return nil
	}
	limit := stabilityMargin * 2 / wMax
	if dt > limit {
		return fmt.Errorf("%w: dt %.4f exceeds %.4f for ω_max %.3f rad/s",
			ErrTimestepTooLarge, dt, limit, wMax)
	}
	return nil
}

// Step advances all DOFs by dt under forcing sampled from the wave field at
// the ship reference position (x = 0) and time t.
func (m *Simulator) Step(t, dt float64, f *wave.Field) [NumDOF]State {
	var force [NumDOF]float64
	if f != nil {
		force[Heave] = m.osc[Heave].Stiffness * f.Elevation(t, 0)
		force[Roll] = m.osc[Roll].Stiffness * f.SlopeTransverse(t, 0)
		force[Pitch] = m.osc[Pitch].Stiffness * f.SlopeLongitudinal(t, 0)
	}
	return m.StepForced(t, dt, force)
}

// StepForced advances all DOFs under explicit forcing samples.
func (m *Simulator) StepForced(t, dt float64, force [NumDOF]float64) [NumDOF]State {
	for d := DOF(0); d < NumDOF; d++ {
		m.states[d] = m.stepper.Step(m.osc[d], m.states[d], force[d], dt)
		m.window[d].push(t+dt, m.states[d].Displacement)
	}
	return m.states
}

// States returns the current per-DOF motion state.
func (m *Simulator) States() [NumDOF]State { return m.states }

// Oscillator exposes the tuned parameters of one DOF.
func (m *Simulator) Oscillator(d DOF) Oscillator { return m.osc[d] }

// Amplitudes returns the peak-to-peak displacement of each DOF over the
// rolling window, the "motion response" display summary.
func (m *Simulator) Amplitudes() [NumDOF]float64 {
	var out [NumDOF]float64
	for d := range m.window {
		out[d] = m.window[d].peakToPeak()
	}
	return out
}

// Reset zeroes all integrator state and the response windows.
func (m *Simulator) Reset() {
	for d := range m.states {
		m.states[d] = State{}
		m.window[d].reset()
	}
}

// SetInitial seeds one DOF, used by tests and the live view's nudge keys.
func (m *Simulator) SetInitial(d DOF, s State) { m.states[d] = s }
