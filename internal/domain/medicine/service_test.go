package medicine

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	medicines map[uuid.UUID]*Medicine
}

func newMockRepo() *mockRepo {
	return &mockRepo{medicines: make(map[uuid.UUID]*Medicine)}
}

func (m *mockRepo) Create(ctx context.Context, med *Medicine) error {
	med.ID = uuid.New()
	m.medicines[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	med, ok := m.medicines[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return med, nil
}

func (m *mockRepo) Update(ctx context.Context, med *Medicine) error {
	if _, ok := m.medicines[med.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.medicines[med.ID] = med
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.medicines, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	var out []*Medicine
	for _, med := range m.medicines {
		out = append(out, med)
	}
	return out, len(out), nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if err := svc.Create(ctx, &Medicine{}); err == nil {
		t.Error("expected error for missing name")
	}

	conc := "0.9%"
	m := &Medicine{Name: "Soro Fisiológico", Concentration: &conc}
	if err := svc.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestUpdateRequiresName(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	m := &Medicine{Name: "Dipirona"}
	if err := svc.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	m.Name = ""
	if err := svc.Update(ctx, m); err == nil {
		t.Error("expected error for empty name")
	}

	m.Name = "Dipirona 500mg"
	if err := svc.Update(ctx, m); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.medicines[m.ID].Name != "Dipirona 500mg" {
		t.Errorf("name = %q after update", repo.medicines[m.ID].Name)
	}
}
