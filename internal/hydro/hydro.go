// Package hydro derives static stability measures from the current mass
// distribution: metacentric heights, the righting-arm curve, natural periods
// and a handful of classical single-formula estimates (wind heel, ITTC
// resistance, hull girder stress).
//
// Everything here is a pure function of a ship.State snapshot. Formula set:
// KB by Morrish, transverse waterplane inertia Cwp²/11.7·L·B³, BM = I/∇,
// longitudinal I = Cwp·B·L³/12.
package hydro

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/shipsim/internal/ship"
)

// ErrStaleComputation signals a cache serving results for an outdated ship
// version. It never surfaces through correct use of Engine; seeing it means
// the tick/mutate exclusion was violated.
var ErrStaleComputation = errors.New("hydro: stale computation requested")

// Coefficients bundles the hydrostatic quantities derived from one ship
// state. All heights are metres above the keel.
type Coefficients struct {
	Volume         float64 // displaced volume, m³
	WaterplaneArea float64 // m²
	KB             float64 // centre of buoyancy
	BM             float64 // transverse metacentric radius
	KG             float64
	GM             float64 // transverse metacentric height
	BML            float64 // longitudinal metacentric radius
	GML            float64 // longitudinal metacentric height

	RollPeriod  float64 // natural periods, seconds
	PitchPeriod float64
	HeavePeriod float64
}

// Metacenter computes the hydrostatic coefficients for the given state.
// Fails with ship.ErrInvalidHullGeometry when the inputs cannot produce a
// physically meaningful answer, rather than returning NaN.
func Metacenter(s *ship.State) (Coefficients, error) {
	h := s.Hull()
	if h.Beam <= 0 || h.Draft <= 0 || s.Displacement() <= 0 {
		return Coefficients{}, fmt.Errorf("%w: beam=%.2f draft=%.2f displacement=%.2f",
			ship.ErrInvalidHullGeometry, h.Beam, h.Draft, s.Displacement())
	}
	kg := s.KG()
	if kg > h.Depth {
		return Coefficients{}, fmt.Errorf("%w: KG %.2f above depth %.2f",
			ship.ErrInvalidHullGeometry, kg, h.Depth)
	}

	vol := h.Volume(s.Displacement())
	awp := h.WaterplaneArea()

	// Morrish's formula for the height of the centre of buoyancy.
	kb := (5*h.Draft/2 - vol/awp) / 3

	// Transverse waterplane inertia via the Cwp²/11.7 coefficient.
	it := h.Cwp * h.Cwp / 11.7 * h.Length * math.Pow(h.Beam, 3)
	bm := it / vol

	il := h.Cwp * h.Beam * math.Pow(h.Length, 3) / 12
	bml := il / vol

	c := Coefficients{
		Volume:         vol,
		WaterplaneArea: awp,
		KB:             kb,
		BM:             bm,
		KG:             kg,
		GM:             kb + bm - kg,
		BML:            bml,
		GML:            kb + bml - kg,
	}

	// Natural periods from the stiffness/inertia pairs also used by the
	// motion simulator. Negative GM has no oscillatory period.
	if c.GM > 0 {
		c.RollPeriod = 2 * math.Pi * rollGyradius(h) / math.Sqrt(ship.Gravity*c.GM)
	}
	if c.GML > 0 {
		c.PitchPeriod = 2 * math.Pi * pitchGyradius(h) / math.Sqrt(ship.Gravity*c.GML)
	}
	c.HeavePeriod = 2 * math.Pi * math.Sqrt(s.Displacement()/(ship.RhoWater*ship.Gravity*awp))

	return c, nil
}

// Radii of gyration as fractions of beam/length, the usual rule-of-thumb
// estimates for merchant forms.
func rollGyradius(h ship.Hull) float64  { return 0.4 * h.Beam }
func pitchGyradius(h ship.Hull) float64 { return 0.25 * h.Length }
