package hydro

import (
	"math"

	"github.com/san-kum/shipsim/internal/ship"
)

const (
	// Heel angle domain of the GZ curve, degrees.
	maxHeelDeg  = 90
	heelStepDeg = 1

	// Below blendStart the small-angle form GM·sin φ holds; above blendEnd
	// the wall-sided approximation takes over; linear blend between.
	blendStartDeg = 10
	blendEndDeg   = 30

	// Past deck-edge immersion the wall-sided assumption fails; the arm is
	// tapered linearly to zero over this many degrees.
	deckEdgeTaperDeg = 40
)

// Point is one sample of the righting-arm curve.
type Point struct {
	AngleDeg float64 `json:"angle"`
	GZ       float64 `json:"gz"`
}

// Curve is the righting arm over the heel domain, tagged with the ship
// version it was computed from.
type Curve struct {
	Points         []Point `json:"points"`
	Version        uint64  `json:"version"`
	GM             float64 `json:"gm"`
	MaxGZ          float64 `json:"max_gz"`
	MaxGZAngleDeg  float64 `json:"max_gz_angle"`
	VanishingAngle float64 `json:"vanishing_angle"` // degrees; maxHeelDeg when GZ never returns to zero
}

// At interpolates the curve at an arbitrary heel angle in degrees.
func (c *Curve) At(angleDeg float64) float64 {
	if len(c.Points) == 0 || angleDeg <= 0 {
		return 0
	}
	if angleDeg >= c.Points[len(c.Points)-1].AngleDeg {
		return c.Points[len(c.Points)-1].GZ
	}
	i := int(angleDeg / heelStepDeg)
	p0, p1 := c.Points[i], c.Points[i+1]
	frac := (angleDeg - p0.AngleDeg) / (p1.AngleDeg - p0.AngleDeg)
	return p0.GZ + frac*(p1.GZ-p0.GZ)
}

// ComputeCurve evaluates GZ over the fixed heel domain for the given state.
func ComputeCurve(s *ship.State) (*Curve, error) {
	c, err := Metacenter(s)
	if err != nil {
		return nil, err
	}

	n := maxHeelDeg/heelStepDeg + 1
	curve := &Curve{
		Points:         make([]Point, 0, n),
		Version:        s.Version(),
		GM:             c.GM,
		VanishingAngle: maxHeelDeg,
	}

	h := s.Hull()
	deckEdgeDeg := math.Atan2(2*h.Freeboard(), h.Beam) * 180 / math.Pi

	vanished := false
	for deg := 0.0; deg <= maxHeelDeg; deg += heelStepDeg {
		gz := 0.0
		if !vanished {
			gz = rightingArm(c, deckEdgeDeg, deg)
			if deg > 0 && gz <= 0 {
				// Angle of vanishing stability: the curve is zeroed beyond
				// its first return to the axis.
				vanished = true
				curve.VanishingAngle = deg
				gz = 0
			}
		}
		if gz > curve.MaxGZ {
			curve.MaxGZ = gz
			curve.MaxGZAngleDeg = deg
		}
		curve.Points = append(curve.Points, Point{AngleDeg: deg, GZ: gz})
	}
	return curve, nil
}

// rightingArm blends the small-angle and wall-sided approximations, then
// tapers to zero beyond deck-edge immersion.
func rightingArm(c Coefficients, deckEdgeDeg, angleDeg float64) float64 {
	if angleDeg > deckEdgeDeg {
		fade := 1 - (angleDeg-deckEdgeDeg)/deckEdgeTaperDeg
		if fade <= 0 {
			return 0
		}
		return baseArm(c, deckEdgeDeg) * fade
	}
	return baseArm(c, angleDeg)
}

func baseArm(c Coefficients, angleDeg float64) float64 {
	phi := angleDeg * math.Pi / 180
	small := c.GM * math.Sin(phi)
	if angleDeg <= blendStartDeg {
		return small
	}

	tan := math.Tan(phi)
	wall := (c.GM + 0.5*c.BM*tan*tan) * math.Sin(phi)
	if angleDeg >= blendEndDeg {
		return wall
	}
	w := (angleDeg - blendStartDeg) / (blendEndDeg - blendStartDeg)
	return (1-w)*small + w*wall
}
