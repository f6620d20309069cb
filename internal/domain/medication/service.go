package medication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dripwatch/dripwatch/internal/domain/bed"
)

// ErrBedOccupied is returned by StartByBed when the bed already has an open
// application.
var ErrBedOccupied = errors.New("bed is occupied")

// BedStore is the slice of the bed repository the lifecycle manager needs.
type BedStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*bed.Bed, error)
	StartInfusion(ctx context.Context, id uuid.UUID, p bed.InfusionParams) (*bed.Bed, error)
	Release(ctx context.Context, id uuid.UUID) error
	SetMedicationLabel(ctx context.Context, id uuid.UUID, label string) error
}

// PatientStore unassigns a patient from their bed on finish.
type PatientStore interface {
	ClearBed(ctx context.Context, patientID uuid.UUID) error
}

// IncidentStore clears a bed's incidents when a new infusion starts.
type IncidentStore interface {
	ClearByBed(ctx context.Context, bedID uuid.UUID) (int64, error)
}

// Notifier fires the start notification. Best effort only.
type Notifier interface {
	InfusionStarted(ctx context.Context, bedID uuid.UUID, bedCode string)
}

// TxRunner runs a unit of work in one database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo      Repository
	beds      BedStore
	patients  PatientStore
	incidents IncidentStore
	notifier  Notifier
	tx        TxRunner
	log       zerolog.Logger
}

func NewService(repo Repository, beds BedStore, patients PatientStore, incidents IncidentStore, notifier Notifier, tx TxRunner, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		beds:      beds,
		patients:  patients,
		incidents: incidents,
		notifier:  notifier,
		tx:        tx,
		log:       log,
	}
}

// StartByBed opens an application against a free bed. The application row
// and the bed state change in one transaction; a failure in either leaves no
// partial state. Incident clearing and the start notification run after
// commit and never fail the start.
func (s *Service) StartByBed(ctx context.Context, bedID uuid.UUID, p StartParams) (*bed.Bed, error) {
	b, err := s.beds.GetByID(ctx, bedID)
	if err != nil {
		return nil, fmt.Errorf("bed not found: %w", err)
	}
	if b.Occupied {
		return nil, fmt.Errorf("%w: %s", ErrBedOccupied, b.Code)
	}
	if p.InitialWeightG <= 0 {
		return nil, fmt.Errorf("initial_weight_g is required and must be greater than 0")
	}

	now := time.Now().UTC()
	var estimatedEnd *time.Time
	if p.FlowMLH > 0 && p.VolumeML > 0 {
		end := now.Add(time.Duration(p.VolumeML / p.FlowMLH * float64(time.Hour)))
		estimatedEnd = &end
	}

	var updated *bed.Bed
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		notes := p.Notes
		app := &Application{
			BedID:            &bedID,
			PatientID:        p.PatientID,
			MedicationID:     p.MedicationID,
			VolumeML:         p.VolumeML,
			StartTime:        now,
			EstimatedEndTime: estimatedEnd,
			AppliedBy:        p.AppliedBy,
			Status:           StatusInProgress,
			Notes:            &notes,
		}
		if err := s.repo.Create(ctx, app); err != nil {
			return fmt.Errorf("create application: %w", err)
		}

		updated, err = s.beds.StartInfusion(ctx, bedID, bed.InfusionParams{
			StartedAt:      now,
			EstimatedEnd:   estimatedEnd,
			InitialWeightG: p.InitialWeightG,
			VolumeML:       p.VolumeML,
			DosageMG:       p.DosageMG,
			FlowMLH:        p.FlowMLH,
			Notes:          p.Notes,
		})
		if err != nil {
			return fmt.Errorf("start infusion: %w", err)
		}

		if p.MedicationLabel != "" {
			if err := s.beds.SetMedicationLabel(ctx, bedID, p.MedicationLabel); err != nil {
				return fmt.Errorf("set medication label: %w", err)
			}
			updated.CurrentMedication = &p.MedicationLabel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.incidents != nil {
		if _, err := s.incidents.ClearByBed(ctx, bedID); err != nil {
			s.log.Warn().Err(err).Str("bed_id", bedID.String()).Msg("failed to clear bed incidents")
		}
	}
	if s.notifier != nil {
		s.notifier.InfusionStarted(ctx, bedID, b.Code)
	}
	return updated, nil
}

// FinishByBed closes the bed's open application and frees the bed. When no
// open application can be found, directly or through the patient link, the
// bed is still forced into the free shape and the result says Fallback. The
// caller always gets a result, never a not-found.
func (s *Service) FinishByBed(ctx context.Context, bedID uuid.UUID) (*FinishResult, error) {
	app, err := s.repo.FindOpenByBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		app, err = s.repo.FindOpenByPatientBed(ctx, bedID)
		if err != nil {
			return nil, err
		}
	}

	if app == nil {
		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.beds.Release(ctx, bedID)
		})
		if err != nil {
			return nil, err
		}
		return &FinishResult{Fallback: true}, nil
	}

	now := time.Now().UTC()
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Close(ctx, app.ID, now); err != nil {
			return fmt.Errorf("close application: %w", err)
		}
		if err := s.beds.Release(ctx, bedID); err != nil {
			return fmt.Errorf("release bed: %w", err)
		}
		if app.PatientID != nil {
			if err := s.patients.ClearBed(ctx, *app.PatientID); err != nil {
				return fmt.Errorf("unassign patient: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &FinishResult{ApplicationID: &app.ID, PatientID: app.PatientID}, nil
}

func (s *Service) Create(ctx context.Context, app *Application) error {
	if app.Status == "" {
		app.Status = StatusInProgress
	}
	if app.Status != StatusInProgress && app.Status != StatusFinished {
		return fmt.Errorf("invalid status: %s", app.Status)
	}
	if app.StartTime.IsZero() {
		app.StartTime = time.Now().UTC()
	}
	return s.repo.Create(ctx, app)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, estimatedEnd, actualEnd *time.Time, status, notes *string) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("application not found: %w", err)
	}
	if estimatedEnd != nil {
		app.EstimatedEndTime = estimatedEnd
	}
	if actualEnd != nil {
		app.ActualEndTime = actualEnd
	}
	if status != nil {
		if *status != StatusInProgress && *status != StatusFinished {
			return nil, fmt.Errorf("invalid status: %s", *status)
		}
		app.Status = *status
	}
	if notes != nil {
		app.Notes = notes
	}
	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Application, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}
