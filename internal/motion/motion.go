// Package motion integrates the ship's reduced-order wave response. Each
// degree of freedom (heave, roll, pitch) is the same second-order damped
// oscillator driven by wave forcing, parameterized from the current
// hydrostatics and stepped on the orchestrator's clock.
package motion

import (
	"errors"
	"math"
)

// ErrTimestepTooLarge indicates a configuration whose timestep would
// destabilize the integrator for the current stiffness range.
var ErrTimestepTooLarge = errors.New("motion: timestep too large for stable integration")

// DOF enumerates the modeled degrees of freedom.
type DOF int

const (
	Heave DOF = iota
	Roll
	Pitch
	NumDOF
)

func (d DOF) String() string {
	switch d {
	case Heave:
		return "heave"
	case Roll:
		return "roll"
	case Pitch:
		return "pitch"
	}
	return "unknown"
}

// State is the displacement/velocity pair of one degree of freedom.
// Heave in metres, roll and pitch in radians.
type State struct {
	Displacement float64 `json:"displacement"`
	Velocity     float64 `json:"velocity"`
}

// Oscillator is the parameterized second-order model shared by all DOFs.
type Oscillator struct {
	Mass      float64
	Damping   float64
	Stiffness float64
}

// NaturalFrequency is ω₀ = √(k/m), rad/s.
func (o Oscillator) NaturalFrequency() float64 {
	if o.Mass <= 0 || o.Stiffness <= 0 {
		return 0
	}
	return math.Sqrt(o.Stiffness / o.Mass)
}

// CriticalDamping returns 2·√(k·m).
func (o Oscillator) CriticalDamping() float64 {
	return 2 * math.Sqrt(o.Stiffness*o.Mass)
}

// accel is the oscillator's equation of motion.
func (o Oscillator) accel(s State, force float64) float64 {
	return (force - o.Damping*s.Velocity - o.Stiffness*s.Displacement) / o.Mass
}
