package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusActive:   true,
	StatusInactive: true,
	StatusFaulty:   true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a sensor. New units default to active with a full
// battery until the first heartbeat says otherwise.
func (s *Service) Create(ctx context.Context, sen *Sensor) error {
	if sen.SerialCode == "" {
		return fmt.Errorf("serial_code is required")
	}
	if existing, err := s.repo.GetBySerial(ctx, sen.SerialCode); err == nil && existing != nil {
		return fmt.Errorf("serial_code %s is already registered", sen.SerialCode)
	}
	if sen.Status == "" {
		sen.Status = StatusActive
	}
	if !validStatuses[sen.Status] {
		return fmt.Errorf("invalid status: %s", sen.Status)
	}
	if sen.BatteryPct == 0 {
		sen.BatteryPct = 100
	}
	return s.repo.Create(ctx, sen)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sensor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, sen *Sensor) error {
	if sen.SerialCode == "" {
		return fmt.Errorf("serial_code is required")
	}
	if !validStatuses[sen.Status] {
		return fmt.Errorf("invalid status: %s", sen.Status)
	}
	if sen.BatteryPct < 0 || sen.BatteryPct > 100 {
		return fmt.Errorf("battery_pct must be between 0 and 100")
	}
	return s.repo.Update(ctx, sen)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Sensor, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Heartbeat records a check-in from the firmware. Battery is optional
// so weight-only reports do not wipe the last known level.
func (s *Service) Heartbeat(ctx context.Context, serial string, batteryPct *int) (*Sensor, error) {
	if batteryPct != nil && (*batteryPct < 0 || *batteryPct > 100) {
		return nil, fmt.Errorf("battery_pct must be between 0 and 100")
	}
	return s.repo.Heartbeat(ctx, serial, batteryPct, time.Now().UTC())
}
