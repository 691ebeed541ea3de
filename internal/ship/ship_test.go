package ship

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func testHull() Hull {
	return Hull{
		Length: 100, Beam: 20, Draft: 8,
		BaselineDisplacement: 12000,
		Cb:                   0.7, Cwp: 0.85, Cp: 0.6, FormFactor: 1.05,
	}
}

func TestNewStateDefaultsDepth(t *testing.T) {
	s, err := NewState(testHull(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Hull().Depth; math.Abs(got-12) > 1e-12 {
		t.Errorf("expected depth 12, got %f", got)
	}
	if got := s.KG(); math.Abs(got-7.2) > 1e-12 {
		t.Errorf("expected baseline KG 7.2, got %f", got)
	}
}

func TestNewStateRejectsBadHull(t *testing.T) {
	bad := []Hull{
		{Length: 0, Beam: 20, Draft: 8, BaselineDisplacement: 12000, Cb: 0.7, Cwp: 0.85},
		{Length: 100, Beam: 20, Draft: 8, BaselineDisplacement: -1, Cb: 0.7, Cwp: 0.85},
		{Length: 100, Beam: 20, Draft: 8, Depth: 4, BaselineDisplacement: 12000, Cb: 0.7, Cwp: 0.85},
		{Length: 100, Beam: 20, Draft: 8, BaselineDisplacement: 12000, Cb: 1.4, Cwp: 0.85},
	}
	for i, h := range bad {
		if _, err := NewState(h, nil); !errors.Is(err, ErrInvalidHullGeometry) {
			t.Errorf("hull %d: expected ErrInvalidHullGeometry, got %v", i, err)
		}
	}
}

func TestMassConservation(t *testing.T) {
	tanks := []BallastTank{
		{ID: "fp", Capacity: 400, LongPos: 95, VertPos: 2},
		{ID: "ap", Capacity: 400, LongPos: 5, VertPos: 2},
	}
	s, err := NewState(testHull(), tanks)
	if err != nil {
		t.Fatal(err)
	}

	id1, err := s.AddCargo("containers", 500, 40, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddCargo("bulk", 800, 60, 3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBallastFill("fp", 0.5); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveCargo(id1); err != nil {
		t.Fatal(err)
	}

	want := 12000.0 + 800 + 0.5*400
	if got := s.Displacement(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected displacement %f, got %f", want, got)
	}
}

func TestVersionStrictlyIncreases(t *testing.T) {
	s, _ := NewState(testHull(), []BallastTank{{ID: "db", Capacity: 100, VertPos: 1, LongPos: 50}})

	v := s.Version()
	id, _ := s.AddCargo("crate", 100, 50, 5)
	if s.Version() <= v {
		t.Fatal("AddCargo did not bump version")
	}
	v = s.Version()
	if err := s.MoveCargo(id, 30, 4); err != nil {
		t.Fatal(err)
	}
	if s.Version() != v+1 {
		t.Errorf("MoveCargo must be a single version bump, went %d -> %d", v, s.Version())
	}
	v = s.Version()
	_ = s.SetBallastFill("db", 1)
	if s.Version() != v+1 {
		t.Error("SetBallastFill did not bump version")
	}
}

func TestFailedOpLeavesStateUntouched(t *testing.T) {
	s, _ := NewState(testHull(), nil)
	id, _ := s.AddCargo("crate", 100, 50, 5)

	before := s.Summarize()

	if _, err := s.AddCargo("bad", -5, 50, 5); !errors.Is(err, ErrInvalidOperand) {
		t.Fatalf("expected ErrInvalidOperand, got %v", err)
	}
	if err := s.MoveCargo(id, 50, 99); !errors.Is(err, ErrInvalidOperand) {
		t.Fatalf("expected ErrInvalidOperand for out-of-hull move, got %v", err)
	}
	if err := s.SetBallastFill("nope", 0.5); !errors.Is(err, ErrInvalidOperand) {
		t.Fatalf("expected ErrInvalidOperand for unknown tank, got %v", err)
	}

	after := s.Summarize()
	if before.Version != after.Version {
		t.Error("failed operation bumped version")
	}
	if before.Displacement != after.Displacement || before.KG != after.KG {
		t.Error("failed operation changed derived mass distribution")
	}
	if len(after.Cargo) != 1 || after.Cargo[0].LongPos != 50 {
		t.Error("failed operation left partial cargo update")
	}
}

func TestNaNOperandsRejected(t *testing.T) {
	nan := math.NaN()
	s, _ := NewState(testHull(), []BallastTank{{ID: "db", Capacity: 100, VertPos: 1, LongPos: 50}})
	id, _ := s.AddCargo("crate", 100, 50, 5)

	if _, err := s.AddCargo("x", 100, nan, 5); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand for NaN longitudinal position, got %v", err)
	}
	if _, err := s.AddCargo("x", 100, 50, nan); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand for NaN vertical position, got %v", err)
	}
	if err := s.MoveCargo(id, nan, nan); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand for NaN move, got %v", err)
	}
	if _, err := s.AddCargo("x", nan, 50, 5); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand for NaN mass, got %v", err)
	}
	if err := s.SetBallastFill("db", nan); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand for NaN fill, got %v", err)
	}

	if math.IsNaN(s.KG()) || math.IsNaN(s.Displacement()) {
		t.Error("rejected operand leaked into derived mass distribution")
	}
}

func TestCGWeightedAverage(t *testing.T) {
	s, _ := NewState(testHull(), nil)

	// 12000 t at KG 7.2 plus 1200 t at 1.2 m pulls KG down by one metre * ratio.
	if _, err := s.AddCargo("low", 1200, 50, 1.2); err != nil {
		t.Fatal(err)
	}
	want := (12000*7.2 + 1200*1.2) / 13200
	if got := s.KG(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected KG %f, got %f", want, got)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")

	s, _ := NewState(testHull(), []BallastTank{{ID: "fp", Capacity: 300, Fill: 0.25, LongPos: 90, VertPos: 2}})
	_, _ = s.AddCargo("deck", 250, 70, 11)
	_ = s.SetBallastFill("fp", 0.75)

	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(loaded.Displacement()-s.Displacement()) > 1e-9 {
		t.Errorf("displacement not preserved: %f vs %f", loaded.Displacement(), s.Displacement())
	}
	if math.Abs(loaded.KG()-s.KG()) > 1e-9 {
		t.Errorf("KG not preserved: %f vs %f", loaded.KG(), s.KG())
	}
	if loaded.Version() >= s.Version() && s.Version() > 1 {
		// version is recomputed from zero on load, not serialized
		t.Errorf("expected version reset on load, got %d", loaded.Version())
	}
}
