package hydro

import (
	"fmt"

	"github.com/san-kum/shipsim/internal/ship"
)

// Engine memoizes hydrostatics per ship version. It holds no reference to
// the state; callers pass the current snapshot and the cache is keyed on
// its version counter. Not safe for concurrent use: the orchestrator's
// exclusive section is the expected caller.
type Engine struct {
	version uint64
	coeffs  Coefficients
	curve   *Curve
	valid   bool
}

func NewEngine() *Engine { return &Engine{} }

// Coefficients returns the hydrostatic coefficients for the state,
// recomputing only when the version advanced.
func (e *Engine) Coefficients(s *ship.State) (Coefficients, error) {
	if err := e.refresh(s); err != nil {
		return Coefficients{}, err
	}
	return e.coeffs, nil
}

// Curve returns the memoized GZ curve for the state, recomputing lazily
// when stale. The returned pointer is shared; callers that hand it across
// the snapshot boundary must copy (see Curve.Clone).
func (e *Engine) Curve(s *ship.State) (*Curve, error) {
	if err := e.refresh(s); err != nil {
		return nil, err
	}
	if e.curve.Version != s.Version() {
		// Only reachable if the state mutated while we computed, which the
		// orchestrator's lock is supposed to prevent.
		return nil, fmt.Errorf("%w: curve version %d, ship version %d",
			ErrStaleComputation, e.curve.Version, s.Version())
	}
	return e.curve, nil
}

func (e *Engine) refresh(s *ship.State) error {
	if e.valid && e.version == s.Version() {
		return nil
	}
	c, err := Metacenter(s)
	if err != nil {
		return err
	}
	curve, err := ComputeCurve(s)
	if err != nil {
		return err
	}
	e.coeffs = c
	e.curve = curve
	e.version = s.Version()
	e.valid = true
	return nil
}

// Clone returns a deep copy of the curve, safe to publish in a snapshot.
func (c *Curve) Clone() *Curve {
	out := *c
	out.Points = make([]Point, len(c.Points))
	copy(out.Points, c.Points)
	return &out
}
