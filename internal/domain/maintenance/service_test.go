package maintenance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	maints map[uuid.UUID]*Maintenance
}

func newMockRepo() *mockRepo {
	return &mockRepo{maints: make(map[uuid.UUID]*Maintenance)}
}

func (m *mockRepo) Create(ctx context.Context, mt *Maintenance) error {
	mt.ID = uuid.New()
	m.maints[mt.ID] = mt
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Maintenance, error) {
	mt, ok := m.maints[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *mt
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, mt *Maintenance) error {
	if _, ok := m.maints[mt.ID]; !ok {
		return fmt.Errorf("not found")
	}
	cp := *mt
	m.maints[mt.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.maints, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Maintenance, int, error) {
	var out []*Maintenance
	for _, mt := range m.maints {
		if f.BedID != nil && mt.BedID != *f.BedID {
			continue
		}
		if f.Status != nil && mt.Status != *f.Status {
			continue
		}
		out = append(out, mt)
	}
	return out, len(out), nil
}

func TestScheduleDefaultsAndValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if err := svc.Schedule(ctx, &Maintenance{Reason: "troca de sensor", ScheduledFor: time.Now()}); err == nil {
		t.Error("missing bed_id accepted")
	}
	if err := svc.Schedule(ctx, &Maintenance{BedID: uuid.New(), ScheduledFor: time.Now()}); err == nil {
		t.Error("missing reason accepted")
	}
	if err := svc.Schedule(ctx, &Maintenance{BedID: uuid.New(), Reason: "troca de sensor"}); err == nil {
		t.Error("missing scheduled_for accepted")
	}

	m := &Maintenance{BedID: uuid.New(), Reason: "troca de sensor", ScheduledFor: time.Now().Add(24 * time.Hour)}
	if err := svc.Schedule(ctx, m); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if m.Status != StatusScheduled {
		t.Errorf("status = %q, want %q", m.Status, StatusScheduled)
	}
}

func TestComplete(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	m := &Maintenance{BedID: uuid.New(), Reason: "calibração", ScheduledFor: time.Now()}
	if err := svc.Schedule(ctx, m); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	notes := "célula de carga calibrada"
	done, err := svc.Complete(ctx, m.ID, &notes)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != StatusDone {
		t.Errorf("status = %q, want %q", done.Status, StatusDone)
	}
	if done.PerformedAt == nil {
		t.Error("performed_at not set")
	}
	if done.Notes == nil || *done.Notes != notes {
		t.Errorf("notes = %v", done.Notes)
	}

	// Completing again is a no-op, not an error.
	first := *done.PerformedAt
	again, err := svc.Complete(ctx, m.ID, nil)
	if err != nil {
		t.Fatalf("Complete twice: %v", err)
	}
	if !again.PerformedAt.Equal(first) {
		t.Error("performed_at changed on second complete")
	}
}

func TestCompleteCancelledFails(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	m := &Maintenance{BedID: uuid.New(), Reason: "limpeza", ScheduledFor: time.Now(), Status: StatusCancelled}
	if err := svc.Schedule(ctx, m); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := svc.Complete(ctx, m.ID, nil); err == nil {
		t.Error("cancelled maintenance completed")
	}
}
