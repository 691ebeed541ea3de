package motion

// Stepper advances one oscillator state by dt under a forcing sample held
// constant across the step.
type Stepper interface {
	Step(o Oscillator, s State, force, dt float64) State
}

// SemiImplicitEuler is the default: symplectic, stable for ω·dt < 2, and
// cheap enough to run every UI tick.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler { return &SemiImplicitEuler{} }

func (SemiImplicitEuler) Step(o Oscillator, s State, force, dt float64) State {
	v := s.Velocity + dt*o.accel(s, force)
	return State{
		Displacement: s.Displacement + dt*v,
		Velocity:     v,
	}
}

// RK4 is the classical fourth-order scheme over the (x, v) pair.
type RK4 struct{}

func NewRK4() *RK4 { return &RK4{} }

func (RK4) Step(o Oscillator, s State, force, dt float64) State {
	deriv := func(st State) (dx, dv float64) {
		return st.Velocity, o.accel(st, force)
	}

	k1x, k1v := deriv(s)
	k2x, k2v := deriv(State{s.Displacement + dt*0.5*k1x, s.Velocity + dt*0.5*k1v})
	k3x, k3v := deriv(State{s.Displacement + dt*0.5*k2x, s.Velocity + dt*0.5*k2v})
	k4x, k4v := deriv(State{s.Displacement + dt*k3x, s.Velocity + dt*k3v})

	dt6 := dt / 6
	return State{
		Displacement: s.Displacement + dt6*(k1x+2*k2x+2*k3x+k4x),
		Velocity:     s.Velocity + dt6*(k1v+2*k2v+2*k3v+k4v),
	}
}
