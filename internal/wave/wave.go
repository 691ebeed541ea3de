// Package wave synthesizes a sea surface as a superposition of regular
// deep-water wave components. Elevation and slope are pure functions of
// absolute time and position, so the field is restartable: re-querying the
// same (t, x) always yields the same value.
package wave

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/shipsim/internal/ship"
)

// Component is one regular wave. Heading is the propagation direction in
// radians relative to the ship's longitudinal axis (0 = following sea,
// π/2 = beam sea).
type Component struct {
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
	Omega     float64 `yaml:"omega" json:"omega"` // angular frequency, rad/s
	Phase     float64 `yaml:"phase" json:"phase"`
	Heading   float64 `yaml:"heading" json:"heading"`
}

// Wavenumber from the deep-water dispersion relation ω² = g·k.
func (c Component) Wavenumber() float64 {
	return c.Omega * c.Omega / ship.Gravity
}

func (c Component) Period() float64 { return 2 * math.Pi / c.Omega }

// Field is an immutable set of components. It carries no clock; time is an
// argument to every query.
type Field struct {
	components []Component
}

// New builds a field, rejecting non-positive frequencies and negative
// amplitudes.
func New(components []Component) (*Field, error) {
	for i, c := range components {
		if c.Omega <= 0 {
			return nil, fmt.Errorf("wave: component %d: omega must be positive, got %f", i, c.Omega)
		}
		if c.Amplitude < 0 {
			return nil, fmt.Errorf("wave: component %d: negative amplitude %f", i, c.Amplitude)
		}
	}
	cs := make([]Component, len(components))
	copy(cs, components)
	return &Field{components: cs}, nil
}

// Components returns a copy of the configured components.
func (f *Field) Components() []Component {
	out := make([]Component, len(f.components))
	copy(out, f.components)
	return out
}

// Elevation is η(x,t) = Σ Aᵢ·cos(kᵢ·x·cos θᵢ − ωᵢ·t + φᵢ), metres. x is the
// position along the ship's longitudinal axis; each component's wavenumber
// is projected onto it by the heading.
func (f *Field) Elevation(t, x float64) float64 {
	eta := 0.0
	for _, c := range f.components {
		kx := c.Wavenumber() * math.Cos(c.Heading)
		eta += c.Amplitude * math.Cos(kx*x-c.Omega*t+c.Phase)
	}
	return eta
}

// SlopeLongitudinal is the analytic ∂η/∂x along the ship axis, which forces
// pitch.
func (f *Field) SlopeLongitudinal(t, x float64) float64 {
	s := 0.0
	for _, c := range f.components {
		kx := c.Wavenumber() * math.Cos(c.Heading)
		s += -c.Amplitude * kx * math.Sin(kx*x-c.Omega*t+c.Phase)
	}
	return s
}

// SlopeTransverse is the surface slope across the ship axis at x, which
// forces roll.
func (f *Field) SlopeTransverse(t, x float64) float64 {
	s := 0.0
	for _, c := range f.components {
		k := c.Wavenumber()
		kx := k * math.Cos(c.Heading)
		ky := k * math.Sin(c.Heading)
		s += -c.Amplitude * ky * math.Sin(kx*x-c.Omega*t+c.Phase)
	}
	return s
}

// Profile samples the elevation over a display window centred on x=0.
func (f *Field) Profile(t float64, halfWidth float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	step := 2 * halfWidth / float64(n-1)
	for i := range out {
		out[i] = f.Elevation(t, -halfWidth+float64(i)*step)
	}
	return out
}

// Summary is the read-only sea state aggregate for display.
type Summary struct {
	SignificantHeight float64 `json:"significant_height"` // Hs = 4·√m0
	DominantPeriod    float64 `json:"dominant_period"`    // period of the most energetic component
	Components        int     `json:"components"`
}

func (f *Field) Summary() Summary {
	m0 := 0.0
	best := 0
	for i, c := range f.components {
		m0 += c.Amplitude * c.Amplitude / 2
		if c.Amplitude > f.components[best].Amplitude {
			best = i
		}
	}
	sum := Summary{SignificantHeight: 4 * math.Sqrt(m0), Components: len(f.components)}
	if len(f.components) > 0 {
		sum.DominantPeriod = f.components[best].Period()
	}
	return sum
}

// MaxOmega is the highest component frequency, used for the integrator
// timestep bound.
func (f *Field) MaxOmega() float64 {
	max := 0.0
	for _, c := range f.components {
		if c.Omega > max {
			max = c.Omega
		}
	}
	return max
}

// FromSeaState synthesizes n components approximating a sea of the given
// significant height (m) and dominant period (s). Frequencies spread around
// the peak, amplitudes fall off away from it, phases and headings are drawn
// from the seeded source so a run is reproducible.
func FromSeaState(hs, tp float64, n int, seed int64) (*Field, error) {
	if hs <= 0 || tp <= 0 {
		return nil, fmt.Errorf("wave: sea state needs positive Hs and Tp, got %f/%f", hs, tp)
	}
	if n < 1 {
		n = 1
	}
	rng := rand.New(rand.NewSource(seed))
	omegaP := 2 * math.Pi / tp

	weights := make([]float64, n)
	total := 0.0
	comps := make([]Component, n)
	for i := range comps {
		// Frequencies from 0.6·ωp to 2·ωp, denser energy near the peak.
		frac := float64(i) / float64(maxInt(n-1, 1))
		omega := omegaP * (0.6 + 1.4*frac)
		rel := omega / omegaP
		w := math.Exp(-2 * (rel - 1) * (rel - 1))
		weights[i] = w
		total += w
		comps[i] = Component{
			Omega:   omega,
			Phase:   rng.Float64() * 2 * math.Pi,
			Heading: math.Pi/2 + (rng.Float64()-0.5)*math.Pi/3,
		}
	}

	// Scale amplitudes so 4·√(Σ Aᵢ²/2) recovers Hs.
	m0Target := hs * hs / 16
	for i := range comps {
		comps[i].Amplitude = math.Sqrt(2 * m0Target * weights[i] / total)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i].Omega < comps[j].Omega })
	return New(comps)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
