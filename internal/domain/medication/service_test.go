package medication

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dripwatch/dripwatch/internal/domain/bed"
	"github.com/dripwatch/dripwatch/internal/domain/drip"
)

type mockRepo struct {
	apps      map[uuid.UUID]*Application
	createErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{apps: make(map[uuid.UUID]*Application)}
}

func (m *mockRepo) Create(ctx context.Context, app *Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	app.ID = uuid.New()
	app.CreatedAt = time.Now().UTC()
	copied := *app
	m.apps[app.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	copied := *app
	return &copied, nil
}

func (m *mockRepo) Update(ctx context.Context, app *Application) error {
	if _, ok := m.apps[app.ID]; !ok {
		return fmt.Errorf("not found")
	}
	copied := *app
	m.apps[app.ID] = &copied
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.apps, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Application, int, error) {
	var out []*Application
	for _, app := range m.apps {
		if filter.Status != nil && app.Status != *filter.Status {
			continue
		}
		if filter.BedID != nil && (app.BedID == nil || *app.BedID != *filter.BedID) {
			continue
		}
		out = append(out, app)
	}
	return out, len(out), nil
}

func (m *mockRepo) FindOpenByBed(ctx context.Context, bedID uuid.UUID) (*Application, error) {
	var latest *Application
	for _, app := range m.apps {
		if app.Status != StatusInProgress || app.BedID == nil || *app.BedID != bedID {
			continue
		}
		if latest == nil || app.StartTime.After(latest.StartTime) {
			latest = app
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *mockRepo) FindOpenByPatientBed(ctx context.Context, bedID uuid.UUID) (*Application, error) {
	return nil, nil
}

func (m *mockRepo) Close(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	app, ok := m.apps[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	app.Status = StatusFinished
	ended := endedAt
	app.ActualEndTime = &ended
	return nil
}

type mockBedStore struct {
	beds       map[uuid.UUID]*bed.Bed
	releaseErr error
}

func newMockBedStore() *mockBedStore {
	return &mockBedStore{beds: make(map[uuid.UUID]*bed.Bed)}
}

func (m *mockBedStore) add(code string, occupied bool) *bed.Bed {
	b := &bed.Bed{ID: uuid.New(), Code: code, Occupied: occupied, DripStatus: drip.StatusNenhum}
	m.beds[b.ID] = b
	return b
}

func (m *mockBedStore) GetByID(ctx context.Context, id uuid.UUID) (*bed.Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	copied := *b
	return &copied, nil
}

func (m *mockBedStore) StartInfusion(ctx context.Context, id uuid.UUID, p bed.InfusionParams) (*bed.Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	b.Occupied = true
	b.DripStatus = drip.StatusEmAndamento
	started := p.StartedAt
	b.InfusionStartTime = &started
	b.EstimatedEndTime = p.EstimatedEnd
	b.InitialWeightG = p.InitialWeightG
	b.CurrentWeightG = p.InitialWeightG
	copied := *b
	return &copied, nil
}

func (m *mockBedStore) Release(ctx context.Context, id uuid.UUID) error {
	if m.releaseErr != nil {
		return m.releaseErr
	}
	b, ok := m.beds[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	b.Occupied = false
	b.DripStatus = drip.StatusFinalizado
	b.InitialWeightG = 0
	b.CurrentWeightG = 0
	b.CurrentMedication = nil
	b.InfusionStartTime = nil
	b.EstimatedEndTime = nil
	return nil
}

func (m *mockBedStore) SetMedicationLabel(ctx context.Context, id uuid.UUID, label string) error {
	b, ok := m.beds[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	b.CurrentMedication = &label
	return nil
}

type mockPatientStore struct {
	cleared []uuid.UUID
}

func (m *mockPatientStore) ClearBed(ctx context.Context, patientID uuid.UUID) error {
	m.cleared = append(m.cleared, patientID)
	return nil
}

type mockIncidentStore struct {
	cleared  []uuid.UUID
	clearErr error
}

func (m *mockIncidentStore) ClearByBed(ctx context.Context, bedID uuid.UUID) (int64, error) {
	if m.clearErr != nil {
		return 0, m.clearErr
	}
	m.cleared = append(m.cleared, bedID)
	return 1, nil
}

type mockNotifier struct {
	started []string
}

func (m *mockNotifier) InfusionStarted(ctx context.Context, bedID uuid.UUID, code string) {
	m.started = append(m.started, code)
}

// fakeTx runs the unit of work without a database. When failNext is set the
// work is not executed, standing in for a failed begin.
type fakeTx struct {
	failNext bool
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.failNext {
		f.failNext = false
		return errors.New("tx begin failed")
	}
	return fn(ctx)
}

type fixture struct {
	svc       *Service
	repo      *mockRepo
	beds      *mockBedStore
	patients  *mockPatientStore
	incidents *mockIncidentStore
	notifier  *mockNotifier
	tx        *fakeTx
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newMockRepo(),
		beds:      newMockBedStore(),
		patients:  &mockPatientStore{},
		incidents: &mockIncidentStore{},
		notifier:  &mockNotifier{},
		tx:        &fakeTx{},
	}
	f.svc = NewService(f.repo, f.beds, f.patients, f.incidents, f.notifier, f.tx, zerolog.Nop())
	return f
}

func TestStartByBed_CreatesApplicationAndOccupiesBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.beds.add("L01", false)

	updated, err := f.svc.StartByBed(ctx, b.ID, StartParams{
		MedicationLabel: "Dipirona 500mg",
		VolumeML:        500,
		FlowMLH:         125,
		InitialWeightG:  500,
		Notes:           "via app",
	})
	if err != nil {
		t.Fatalf("StartByBed: %v", err)
	}
	if !updated.Occupied {
		t.Error("bed not occupied after start")
	}
	if updated.DripStatus != drip.StatusEmAndamento {
		t.Errorf("status = %s, want em-andamento", updated.DripStatus)
	}
	if len(f.repo.apps) != 1 {
		t.Fatalf("%d applications, want 1", len(f.repo.apps))
	}
	for _, app := range f.repo.apps {
		if app.Status != StatusInProgress {
			t.Errorf("application status = %q", app.Status)
		}
		if app.EstimatedEndTime == nil {
			t.Error("estimated end not computed from volume/flow")
		} else {
			// 500ml at 125ml/h is a 4h bag.
			want := app.StartTime.Add(4 * time.Hour)
			if diff := app.EstimatedEndTime.Sub(want); diff < -time.Second || diff > time.Second {
				t.Errorf("estimated end off by %v", diff)
			}
		}
	}
	if len(f.incidents.cleared) != 1 || f.incidents.cleared[0] != b.ID {
		t.Error("bed incidents not cleared")
	}
	if len(f.notifier.started) != 1 || f.notifier.started[0] != "L01" {
		t.Error("start notification not fired")
	}
}

func TestStartByBed_OccupiedConflictLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.beds.add("L02", true)
	before := *f.beds.beds[b.ID]

	_, err := f.svc.StartByBed(ctx, b.ID, StartParams{InitialWeightG: 500})
	if !errors.Is(err, ErrBedOccupied) {
		t.Fatalf("err = %v, want ErrBedOccupied", err)
	}
	if len(f.repo.apps) != 0 {
		t.Errorf("%d applications created on conflict", len(f.repo.apps))
	}
	if *f.beds.beds[b.ID] != before {
		t.Error("bed state changed on conflict")
	}
	if len(f.notifier.started) != 0 {
		t.Error("notification fired on conflict")
	}
}

func TestStartByBed_DoubleStartCreatesSingleRow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.beds.add("L03", false)

	if _, err := f.svc.StartByBed(ctx, b.ID, StartParams{InitialWeightG: 500}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := f.svc.StartByBed(ctx, b.ID, StartParams{InitialWeightG: 500}); !errors.Is(err, ErrBedOccupied) {
		t.Fatalf("second start err = %v, want ErrBedOccupied", err)
	}
	if len(f.repo.apps) != 1 {
		t.Errorf("%d applications, want 1", len(f.repo.apps))
	}
}

func TestStartByBed_RequiresInitialWeight(t *testing.T) {
	f := newFixture()
	b := f.beds.add("L04", false)

	for _, weight := range []float64{0, -10} {
		if _, err := f.svc.StartByBed(context.Background(), b.ID, StartParams{InitialWeightG: weight}); err == nil {
			t.Errorf("weight %v accepted", weight)
		}
	}
}

func TestStartByBed_TxFailureLeavesNoPartialState(t *testing.T) {
	f := newFixture()
	b := f.beds.add("L05", false)
	f.tx.failNext = true

	if _, err := f.svc.StartByBed(context.Background(), b.ID, StartParams{InitialWeightG: 500}); err == nil {
		t.Fatal("expected tx error")
	}
	if len(f.repo.apps) != 0 {
		t.Error("application row exists after failed tx")
	}
	if f.beds.beds[b.ID].Occupied {
		t.Error("bed occupied after failed tx")
	}
	if len(f.notifier.started) != 0 {
		t.Error("notification fired after failed tx")
	}
}

func TestStartByBed_IncidentClearFailureDoesNotFailStart(t *testing.T) {
	f := newFixture()
	b := f.beds.add("L06", false)
	f.incidents.clearErr = errors.New("incidents table down")

	if _, err := f.svc.StartByBed(context.Background(), b.ID, StartParams{InitialWeightG: 500}); err != nil {
		t.Fatalf("StartByBed: %v", err)
	}
	if len(f.notifier.started) != 1 {
		t.Error("start notification skipped")
	}
}

func TestFinishByBed_ClosesApplicationAndFreesBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.beds.add("L07", false)
	patientID := uuid.New()

	if _, err := f.svc.StartByBed(ctx, b.ID, StartParams{InitialWeightG: 500, PatientID: &patientID}); err != nil {
		t.Fatalf("StartByBed: %v", err)
	}

	result, err := f.svc.FinishByBed(ctx, b.ID)
	if err != nil {
		t.Fatalf("FinishByBed: %v", err)
	}
	if result.Fallback {
		t.Error("fallback reported with an open application present")
	}
	if result.ApplicationID == nil {
		t.Fatal("application id missing from result")
	}
	app := f.repo.apps[*result.ApplicationID]
	if app.Status != StatusFinished {
		t.Errorf("application status = %q, want finalizado", app.Status)
	}
	if app.ActualEndTime == nil {
		t.Error("actual end time not set")
	}
	freed := f.beds.beds[b.ID]
	if freed.Occupied || freed.DripStatus != drip.StatusFinalizado {
		t.Errorf("bed not freed: occupied=%v status=%s", freed.Occupied, freed.DripStatus)
	}
	if freed.InitialWeightG != 0 || freed.CurrentWeightG != 0 {
		t.Error("weights not zeroed")
	}
	if len(f.patients.cleared) != 1 || f.patients.cleared[0] != patientID {
		t.Error("patient not unassigned from bed")
	}
}

func TestFinishByBed_FallbackResetsBed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.beds.add("L08", true)
	f.beds.beds[b.ID].DripStatus = drip.StatusAlerta
	f.beds.beds[b.ID].CurrentWeightG = 120

	result, err := f.svc.FinishByBed(ctx, b.ID)
	if err != nil {
		t.Fatalf("FinishByBed: %v", err)
	}
	if !result.Fallback {
		t.Error("fallback not reported")
	}
	if result.ApplicationID != nil || result.PatientID != nil {
		t.Error("ids set on fallback result")
	}
	freed := f.beds.beds[b.ID]
	if freed.Occupied || freed.DripStatus != drip.StatusFinalizado || freed.CurrentWeightG != 0 {
		t.Errorf("bed not reset on fallback: occupied=%v status=%s weight=%v",
			freed.Occupied, freed.DripStatus, freed.CurrentWeightG)
	}
	if len(f.patients.cleared) != 0 {
		t.Error("patient cleared without an application")
	}
}

func TestFinishByBed_NoPatientLinked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.beds.add("L09", false)

	if _, err := f.svc.StartByBed(ctx, b.ID, StartParams{InitialWeightG: 500}); err != nil {
		t.Fatalf("StartByBed: %v", err)
	}
	result, err := f.svc.FinishByBed(ctx, b.ID)
	if err != nil {
		t.Fatalf("FinishByBed: %v", err)
	}
	if result.PatientID != nil {
		t.Error("patient id set with no linked patient")
	}
	if len(f.patients.cleared) != 0 {
		t.Error("ClearBed called with no linked patient")
	}
}

func TestCreate_DefaultsAndValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	app := &Application{VolumeML: 250}
	if err := f.svc.Create(ctx, app); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.Status != StatusInProgress {
		t.Errorf("default status = %q", app.Status)
	}
	if app.StartTime.IsZero() {
		t.Error("start time not defaulted")
	}

	if err := f.svc.Create(ctx, &Application{Status: "paused"}); err == nil {
		t.Error("invalid status accepted")
	}
}
