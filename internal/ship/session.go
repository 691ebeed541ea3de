package ship

import (
	"os"

	"gopkg.in/yaml.v3"
)

// sessionFile is the on-disk shape of a saved session. Version is not
// serialized; a loaded session starts at version zero and recomputes all
// derived quantities.
type sessionFile struct {
	Hull  Hull          `yaml:"hull"`
	Cargo []CargoItem   `yaml:"cargo,omitempty"`
	Tanks []BallastTank `yaml:"ballast_tanks,omitempty"`
}

// Save writes the hull, cargo manifest and ballast tanks to a YAML file.
func Save(path string, s *State) error {
	f := sessionFile{Hull: s.hull, Cargo: s.Cargo(), Tanks: s.Tanks()}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a saved session and rebuilds the state through the normal
// validation path.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f sessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	s, err := NewState(f.Hull, f.Tanks)
	if err != nil {
		return nil, err
	}
	for _, c := range f.Cargo {
		if _, err := s.AddCargo(c.Label, c.Mass, c.LongPos, c.VertPos); err != nil {
			return nil, err
		}
	}
	return s, nil
}
