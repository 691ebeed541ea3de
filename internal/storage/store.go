// Package storage records batch simulation runs to a local SQLite database
// and exports them as JSON.
package storage

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/san-kum/shipsim/internal/motion"
	"github.com/san-kum/shipsim/internal/sim"
)

// Run is the metadata row for one recorded simulation.
type Run struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Label      string    `json:"label"`
	ShipPreset string    `json:"ship_preset"`
	SeaPreset  string    `json:"sea_preset"`
	Seed       int64     `json:"seed"`
	Dt         float64   `json:"dt"`
	Duration   float64   `json:"duration"`

	GM float64 `json:"gm"`
	Hs float64 `json:"hs"`
	Tp float64 `json:"tp"`

	MaxHeave   float64 `json:"max_heave"`
	MaxRollDeg float64 `json:"max_roll_deg"`
	MaxPitch   float64 `json:"max_pitch"`

	Samples []MotionSample `gorm:"constraint:OnDelete:CASCADE" json:"samples,omitempty"`
}

// MotionSample is one sampled motion state along a run.
type MotionSample struct {
	ID    uint `gorm:"primaryKey" json:"-"`
	RunID uint `gorm:"index" json:"-"`

	T         float64 `json:"t"`
	Elevation float64 `json:"elevation"`
	Heave     float64 `json:"heave"`
	HeaveVel  float64 `json:"heave_vel"`
	Roll      float64 `json:"roll"`
	RollVel   float64 `json:"roll_vel"`
	Pitch     float64 `json:"pitch"`
	PitchVel  float64 `json:"pitch_vel"`
}

// Store wraps the database handle.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to (or creates) the SQLite file and migrates the schema.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}, &MotionSample{}); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	log.Debug().Str("path", path).Msg("run store opened")
	return &Store{db: db, log: log}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateRun inserts the metadata row and returns its id.
func (s *Store) CreateRun(run *Run) error {
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("storage: create run: %w", err)
	}
	return nil
}

// AppendSample records one snapshot under a run.
func (s *Store) AppendSample(runID uint, snap sim.Snapshot) error {
	sample := MotionSample{
		RunID:     runID,
		T:         snap.Time,
		Elevation: snap.Elevation,
		Heave:     snap.Motion[motion.Heave].Displacement,
		HeaveVel:  snap.Motion[motion.Heave].Velocity,
		Roll:      snap.Motion[motion.Roll].Displacement,
		RollVel:   snap.Motion[motion.Roll].Velocity,
		Pitch:     snap.Motion[motion.Pitch].Displacement,
		PitchVel:  snap.Motion[motion.Pitch].Velocity,
	}
	if err := s.db.Create(&sample).Error; err != nil {
		return fmt.Errorf("storage: append sample: %w", err)
	}
	return nil
}

// FinishRun stores the result summary on the metadata row.
func (s *Store) FinishRun(runID uint, res *sim.Result) error {
	updates := map[string]any{
		"duration":     res.Duration,
		"max_heave":    res.MaxHeave,
		"max_roll_deg": res.MaxRollDeg,
		"max_pitch":    res.MaxPitch,
	}
	if err := s.db.Model(&Run{}).Where("id = ?", runID).Updates(updates).Error; err != nil {
		return fmt.Errorf("storage: finish run %d: %w", runID, err)
	}
	return nil
}

// ListRuns returns run metadata, newest first, without samples.
func (s *Store) ListRuns() ([]Run, error) {
	var runs []Run
	if err := s.db.Order("id desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("storage: list runs: %w", err)
	}
	return runs, nil
}

// LoadRun fetches one run with its samples in time order.
func (s *Store) LoadRun(id uint) (*Run, error) {
	var run Run
	err := s.db.Preload("Samples", func(db *gorm.DB) *gorm.DB {
		return db.Order("t asc")
	}).First(&run, id).Error
	if err != nil {
		return nil, fmt.Errorf("storage: load run %d: %w", id, err)
	}
	return &run, nil
}
