package config

import (
	"sort"

	"github.com/san-kum/shipsim/internal/ship"
)

// ShipPreset pairs a hull with its ballast tank arrangement.
type ShipPreset struct {
	Hull  ship.Hull
	Tanks []ship.BallastTank
}

// SeaPreset describes a sea state to synthesize wave components from.
type SeaPreset struct {
	Hs         float64 // significant wave height, m
	Tp         float64 // dominant period, s
	Components int
}

var ShipPresets = map[string]ShipPreset{
	"coaster": {
		Hull: ship.Hull{
			Length: 100, Beam: 20, Draft: 8,
			BaselineDisplacement: 12000,
			Cb:                   0.7, Cwp: 0.85, Cp: 0.6, FormFactor: 1.05,
		},
		Tanks: []ship.BallastTank{
			{ID: "fp", Capacity: 400, LongPos: 95, VertPos: 2},
			{ID: "ap", Capacity: 400, LongPos: 5, VertPos: 2},
			{ID: "db-1", Capacity: 600, LongPos: 35, VertPos: 0.8},
			{ID: "db-2", Capacity: 600, LongPos: 65, VertPos: 0.8},
		},
	},
	"tanker": {
		Hull: ship.Hull{
			Length: 250, Beam: 44, Draft: 15,
			BaselineDisplacement: 120000,
			Cb:                   0.82, Cwp: 0.9, Cp: 0.8, FormFactor: 1.1,
		},
		Tanks: []ship.BallastTank{
			{ID: "fp", Capacity: 4000, LongPos: 240, VertPos: 4},
			{ID: "ap", Capacity: 3000, LongPos: 10, VertPos: 4},
			{ID: "wb-p", Capacity: 9000, LongPos: 125, VertPos: 2},
			{ID: "wb-s", Capacity: 9000, LongPos: 125, VertPos: 2},
		},
	},
	"trawler": {
		Hull: ship.Hull{
			Length: 45, Beam: 10, Draft: 4.5,
			BaselineDisplacement: 900,
			Cb:                   0.55, Cwp: 0.78, Cp: 0.58, FormFactor: 1.2,
		},
		Tanks: []ship.BallastTank{
			{ID: "fw", Capacity: 40, LongPos: 20, VertPos: 1},
			{ID: "fo", Capacity: 60, LongPos: 15, VertPos: 0.8},
		},
	},
}

var SeaPresets = map[string]SeaPreset{
	"calm":     {Hs: 0.5, Tp: 6, Components: 6},
	"moderate": {Hs: 2.0, Tp: 8, Components: 10},
	"rough":    {Hs: 4.5, Tp: 10, Components: 14},
	"storm":    {Hs: 8.0, Tp: 13, Components: 18},
}

// GetShipPreset returns nil when the name is unknown.
func GetShipPreset(name string) *ShipPreset {
	p, ok := ShipPresets[name]
	if !ok {
		return nil
	}
	return &p
}

func GetSeaPreset(name string) *SeaPreset {
	p, ok := SeaPresets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListShipPresets() []string { return sortedKeys(ShipPresets) }
func ListSeaPresets() []string  { return sortedKeys(SeaPresets) }

func sortedKeys[M ~map[string]V, V any](m M) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
