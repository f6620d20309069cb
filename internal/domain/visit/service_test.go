package visit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	visits map[uuid.UUID]*Visit
}

func newMockRepo() *mockRepo {
	return &mockRepo{visits: make(map[uuid.UUID]*Visit)}
}

func (m *mockRepo) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	m.visits[v.ID] = v
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *v
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, v *Visit) error {
	if _, ok := m.visits[v.ID]; !ok {
		return fmt.Errorf("not found")
	}
	cp := *v
	m.visits[v.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.visits, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Visit, int, error) {
	var out []*Visit
	for _, v := range m.visits {
		if f.PatientID != nil && v.PatientID != *f.PatientID {
			continue
		}
		if f.BedID != nil && (v.BedID == nil || *v.BedID != *f.BedID) {
			continue
		}
		if f.VisitType != nil && v.VisitType != *f.VisitType {
			continue
		}
		out = append(out, v)
	}
	return out, len(out), nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if err := svc.Create(ctx, &Visit{VisitType: "ronda"}); err == nil {
		t.Error("missing patient_id accepted")
	}
	if err := svc.Create(ctx, &Visit{PatientID: uuid.New()}); err == nil {
		t.Error("missing visit_type accepted")
	}

	v := &Visit{PatientID: uuid.New(), VisitType: "ronda"}
	if err := svc.Create(ctx, v); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.StartedAt.IsZero() {
		t.Error("started_at not defaulted")
	}
}

func TestFinish(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	v := &Visit{PatientID: uuid.New(), VisitType: "resposta_alerta"}
	if err := svc.Create(ctx, v); err != nil {
		t.Fatalf("Create: %v", err)
	}

	notes := "soro trocado"
	done, err := svc.Finish(ctx, v.ID, &notes)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if done.EndedAt == nil {
		t.Fatal("ended_at not set")
	}
	if done.Notes == nil || *done.Notes != notes {
		t.Errorf("notes = %v", done.Notes)
	}

	// Finishing again keeps the original end time.
	first := *done.EndedAt
	time.Sleep(time.Millisecond)
	again, err := svc.Finish(ctx, v.ID, nil)
	if err != nil {
		t.Fatalf("Finish twice: %v", err)
	}
	if !again.EndedAt.Equal(first) {
		t.Error("ended_at changed on second finish")
	}
}

func TestListFilters(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p1 := uuid.New()
	p2 := uuid.New()
	for _, v := range []*Visit{
		{PatientID: p1, VisitType: "ronda"},
		{PatientID: p1, VisitType: "procedimento"},
		{PatientID: p2, VisitType: "ronda"},
	} {
		if err := svc.Create(ctx, v); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, total, err := svc.List(ctx, ListFilter{PatientID: &p1}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("patient filter returned %d/%d, want 2", len(got), total)
	}

	vt := "ronda"
	got, total, err = svc.List(ctx, ListFilter{VisitType: &vt}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("type filter returned %d/%d, want 2", len(got), total)
	}
}
