package hydro

import (
	"math"

	"github.com/san-kum/shipsim/internal/ship"
)

// Kinematic viscosity of seawater, m²/s.
const nuSeawater = 1.19e-6

// WindHeelingMoment estimates the heeling moment from a steady beam-ish
// wind. windSpeed m/s, windArea m² of exposed lateral area, direction in
// degrees off the bow. Result in kN·m (tonne-mass units throughout).
func WindHeelingMoment(s *ship.State, windSpeed, windArea, windDirDeg float64) float64 {
	force := 0.5 * ship.RhoAir * windSpeed * windSpeed * windArea
	return force * s.Hull().Beam * math.Abs(math.Sin(windDirDeg*math.Pi/180))
}

// Resistance estimates total hull resistance at the given speed (m/s) with
// the ITTC-1957 friction line plus a form-factor residual. Returns
// resistance in kN and required power in kW.
func Resistance(s *ship.State, speed float64) (resistance, power float64) {
	if speed <= 0 {
		return 0, 0
	}
	h := s.Hull()
	re := speed * h.Length / nuSeawater
	cf := 0.075 / math.Pow(math.Log10(re)-2, 2)

	// Flat-plate wetted surface estimate: two sides plus bottom.
	wetted := 2*h.Length*h.Draft + h.Beam*h.Length

	friction := 0.5 * ship.RhoWater * wetted * cf * speed * speed
	residual := h.FormFactor * friction
	resistance = friction + residual
	power = resistance * speed
	return resistance, power
}

// BendingStress is the classical first-cut hull girder check: a still-water
// bending moment of 0.1·Δ·L spread over the midship section.
func BendingStress(s *ship.State) float64 {
	h := s.Hull()
	moment := 0.1 * s.Displacement() * h.Length
	return moment / (h.Length * h.Beam)
}
