package ship

import (
	"fmt"
	"math"
	"sort"
)

// Physical constants shared by the hydrostatics and motion packages.
const (
	RhoWater = 1.025 // seawater density, tonnes/m³
	RhoAir   = 0.001225
	Gravity  = 9.81 // m/s²
)

const (
	// Baseline hull mass acts at this fraction of depth above the keel.
	baselineCGFraction = 0.6

	// Depth defaults to this multiple of draft when not supplied.
	defaultDepthRatio = 1.5
)

// Hull holds the immutable principal dimensions and form coefficients of a
// session. BaselineDisplacement is the lightship mass in tonnes; cargo and
// ballast add on top of it.
type Hull struct {
	Length               float64 `yaml:"length" json:"length"`
	Beam                 float64 `yaml:"beam" json:"beam"`
	Draft                float64 `yaml:"draft" json:"draft"`
	Depth                float64 `yaml:"depth" json:"depth"`
	BaselineDisplacement float64 `yaml:"displacement" json:"displacement"`
	Cb                   float64 `yaml:"block_coefficient" json:"block_coefficient"`
	Cwp                  float64 `yaml:"waterplane_coefficient" json:"waterplane_coefficient"`
	Cp                   float64 `yaml:"prismatic_coefficient" json:"prismatic_coefficient"`
	FormFactor           float64 `yaml:"form_factor" json:"form_factor"`
}

func (h Hull) Freeboard() float64 { return h.Depth - h.Draft }

// WaterplaneArea is L·B·Cwp, m².
func (h Hull) WaterplaneArea() float64 { return h.Length * h.Beam * h.Cwp }

// Volume is the displaced volume in m³.
func (h Hull) Volume(displacement float64) float64 { return displacement / RhoWater }

func (h Hull) Validate() error {
	switch {
	case h.Length <= 0 || h.Beam <= 0 || h.Draft <= 0:
		return fmt.Errorf("%w: dimensions must be positive (L=%.2f B=%.2f T=%.2f)",
			ErrInvalidHullGeometry, h.Length, h.Beam, h.Draft)
	case h.BaselineDisplacement <= 0:
		return fmt.Errorf("%w: displacement must be positive, got %.2f",
			ErrInvalidHullGeometry, h.BaselineDisplacement)
	case h.Depth < h.Draft:
		return fmt.Errorf("%w: depth %.2f below draft %.2f",
			ErrInvalidHullGeometry, h.Depth, h.Draft)
	case h.Cb <= 0 || h.Cb > 1 || h.Cwp <= 0 || h.Cwp > 1:
		return fmt.Errorf("%w: form coefficients must be in (0,1] (Cb=%.2f Cwp=%.2f)",
			ErrInvalidHullGeometry, h.Cb, h.Cwp)
	}
	return nil
}

// CargoItem is a discrete mass placed on board. Positions are metres:
// longitudinal from the aft perpendicular, vertical above the keel.
type CargoItem struct {
	ID      int     `yaml:"id" json:"id"`
	Label   string  `yaml:"label" json:"label"`
	Mass    float64 `yaml:"mass" json:"mass"`
	LongPos float64 `yaml:"longitudinal" json:"longitudinal"`
	VertPos float64 `yaml:"vertical" json:"vertical"`
}

// BallastTank is a fixed compartment whose fill fraction is adjustable.
type BallastTank struct {
	ID       string  `yaml:"id" json:"id"`
	Capacity float64 `yaml:"capacity" json:"capacity"`
	Fill     float64 `yaml:"fill" json:"fill"`
	LongPos  float64 `yaml:"longitudinal" json:"longitudinal"`
	VertPos  float64 `yaml:"vertical" json:"vertical"`
}

// Mass is the current ballast water mass in the tank, tonnes.
func (b BallastTank) Mass() float64 { return b.Capacity * b.Fill }

// CG is a centre of gravity: longitudinal from the aft perpendicular,
// vertical above the keel (KG).
type CG struct {
	Long float64
	Vert float64
}

// State is the authoritative mutable record for one simulation session.
// Mutations go through the operation methods, which validate first, apply
// atomically, recompute the derived quantities and bump Version.
type State struct {
	hull        Hull
	cargo       []CargoItem
	tanks       map[string]*BallastTank
	cg          CG
	total       float64
	version     uint64
	nextCargoID int
}

// NewState validates the hull and builds a session state with the given
// ballast tanks (all accepted at their configured fill).
func NewState(hull Hull, tanks []BallastTank) (*State, error) {
	if hull.Depth == 0 {
		hull.Depth = hull.Draft * defaultDepthRatio
	}
	if err := hull.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		hull:        hull,
		cargo:       make([]CargoItem, 0),
		tanks:       make(map[string]*BallastTank, len(tanks)),
		nextCargoID: 1,
	}
	for _, t := range tanks {
		if t.ID == "" || t.Capacity <= 0 {
			return nil, fmt.Errorf("%w: tank %q needs an id and positive capacity", ErrInvalidOperand, t.ID)
		}
		if t.Fill < 0 || t.Fill > 1 {
			return nil, fmt.Errorf("%w: tank %q fill %.3f outside [0,1]", ErrInvalidOperand, t.ID, t.Fill)
		}
		tc := t
		s.tanks[t.ID] = &tc
	}
	s.recompute()
	return s, nil
}

func (s *State) Hull() Hull            { return s.hull }
func (s *State) CG() CG                { return s.cg }
func (s *State) KG() float64           { return s.cg.Vert }
func (s *State) Displacement() float64 { return s.total }
func (s *State) Version() uint64       { return s.version }

// Cargo returns a copy of the cargo manifest in insertion order.
func (s *State) Cargo() []CargoItem {
	out := make([]CargoItem, len(s.cargo))
	copy(out, s.cargo)
	return out
}

// Tanks returns a copy of the ballast tanks sorted by id.
func (s *State) Tanks() []BallastTank {
	out := make([]BallastTank, 0, len(s.tanks))
	for _, t := range s.tanks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BaselineKG is the nominal vertical CG of the empty hull.
func (s *State) BaselineKG() float64 { return s.hull.Depth * baselineCGFraction }

// AddCargo places a new item and returns its id. Mass must be positive and
// the position must lie within the hull envelope.
func (s *State) AddCargo(label string, mass, longPos, vertPos float64) (int, error) {
	if err := s.checkCargo(mass, longPos, vertPos); err != nil {
		return 0, err
	}
	id := s.nextCargoID
	s.nextCargoID++
	s.cargo = append(s.cargo, CargoItem{ID: id, Label: label, Mass: mass, LongPos: longPos, VertPos: vertPos})
	s.bump()
	return id, nil
}

// RemoveCargo deletes the item with the given id.
func (s *State) RemoveCargo(id int) error {
	for i, c := range s.cargo {
		if c.ID == id {
			s.cargo = append(s.cargo[:i], s.cargo[i+1:]...)
			s.bump()
			return nil
		}
	}
	return fmt.Errorf("%w: no cargo item %d", ErrInvalidOperand, id)
}

// MoveCargo relocates an existing item. The relocation is a single version
// bump; no intermediate state is observable.
func (s *State) MoveCargo(id int, longPos, vertPos float64) error {
	idx := -1
	for i, c := range s.cargo {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: no cargo item %d", ErrInvalidOperand, id)
	}
	if err := s.checkCargo(s.cargo[idx].Mass, longPos, vertPos); err != nil {
		return err
	}
	s.cargo[idx].LongPos = longPos
	s.cargo[idx].VertPos = vertPos
	s.bump()
	return nil
}

// SetBallastFill sets a tank's fill fraction.
func (s *State) SetBallastFill(tankID string, fill float64) error {
	t, ok := s.tanks[tankID]
	if !ok {
		return fmt.Errorf("%w: no ballast tank %q", ErrInvalidOperand, tankID)
	}
	if fill < 0 || fill > 1 || math.IsNaN(fill) {
		return fmt.Errorf("%w: fill %.3f outside [0,1]", ErrInvalidOperand, fill)
	}
	t.Fill = fill
	s.bump()
	return nil
}

func (s *State) checkCargo(mass, longPos, vertPos float64) error {
	switch {
	case mass <= 0 || math.IsNaN(mass):
		return fmt.Errorf("%w: cargo mass must be positive, got %.2f", ErrInvalidOperand, mass)
	case longPos < 0 || longPos > s.hull.Length || math.IsNaN(longPos):
		return fmt.Errorf("%w: longitudinal position %.2f outside [0, %.2f]", ErrInvalidOperand, longPos, s.hull.Length)
	case vertPos < 0 || vertPos > s.hull.Depth || math.IsNaN(vertPos):
		return fmt.Errorf("%w: vertical position %.2f outside [0, %.2f]", ErrInvalidOperand, vertPos, s.hull.Depth)
	}
	return nil
}

func (s *State) bump() {
	s.recompute()
	s.version++
}

// recompute rebuilds the derived mass distribution: total displacement and
// the mass-weighted centre of gravity over hull, cargo and ballast.
func (s *State) recompute() {
	base := s.hull.BaselineDisplacement
	total := base
	vertMoment := base * s.BaselineKG()
	longMoment := base * s.hull.Length / 2

	for _, c := range s.cargo {
		total += c.Mass
		vertMoment += c.Mass * c.VertPos
		longMoment += c.Mass * c.LongPos
	}
	for _, t := range s.tanks {
		m := t.Mass()
		total += m
		vertMoment += m * t.VertPos
		longMoment += m * t.LongPos
	}

	s.total = total
	s.cg = CG{Long: longMoment / total, Vert: vertMoment / total}
}

// Summary is a flat read-only view of the state for snapshots and the API.
type Summary struct {
	Hull         Hull          `json:"hull"`
	Cargo        []CargoItem   `json:"cargo"`
	Tanks        []BallastTank `json:"tanks"`
	Displacement float64       `json:"displacement"`
	KG           float64       `json:"kg"`
	LCG          float64       `json:"lcg"`
	Version      uint64        `json:"version"`
}

func (s *State) Summarize() Summary {
	return Summary{
		Hull:         s.hull,
		Cargo:        s.Cargo(),
		Tanks:        s.Tanks(),
		Displacement: s.total,
		KG:           s.cg.Vert,
		LCG:          s.cg.Long,
		Version:      s.version,
	}
}
