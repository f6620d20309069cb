package employee

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dripwatch/dripwatch/internal/platform/auth"
)

type mockRepo struct {
	employees map[uuid.UUID]*Employee
}

func newMockRepo() *mockRepo {
	return &mockRepo{employees: make(map[uuid.UUID]*Employee)}
}

func (m *mockRepo) Create(ctx context.Context, e *Employee) error {
	e.ID = uuid.New()
	m.employees[e.ID] = e
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return e, nil
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Update(ctx context.Context, e *Employee) error {
	if _, ok := m.employees[e.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.employees[e.ID] = e
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.employees, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Employee, int, error) {
	var out []*Employee
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, len(out), nil
}

func testService() (*Service, *mockRepo) {
	repo := newMockRepo()
	cfg := auth.Config{Secret: []byte("test-secret"), Issuer: "dripwatch", TTL: time.Hour}
	return NewService(repo, cfg), repo
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, repo := testService()
	ctx := context.Background()

	e := &Employee{Name: "Ana", Role: "enfermeiro", Email: "ana@example.com"}
	if err := svc.Register(ctx, e, "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored := repo.employees[e.ID]
	if stored.PasswordHash == "s3cret!" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret!")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	if err := svc.Register(ctx, &Employee{Email: "a@b.c"}, "s3cret!"); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Register(ctx, &Employee{Name: "Ana"}, "s3cret!"); err == nil {
		t.Error("expected error for missing email")
	}
	if err := svc.Register(ctx, &Employee{Name: "Ana", Email: "a@b.c"}, "123"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	if err := svc.Register(ctx, &Employee{Name: "Ana", Email: "ana@example.com"}, "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Register(ctx, &Employee{Name: "Bia", Email: "ana@example.com"}, "s3cret!"); err == nil {
		t.Error("duplicate email accepted")
	}
}

func TestLogin(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	e := &Employee{Name: "Ana", Role: "enfermeiro", Email: "ana@example.com"}
	if err := svc.Register(ctx, e, "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	logged, token, err := svc.Login(ctx, "ana@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if logged.ID != e.ID {
		t.Errorf("logged id = %s, want %s", logged.ID, e.ID)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	if err := svc.Register(ctx, &Employee{Name: "Ana", Email: "ana@example.com"}, "s3cret!"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, errWrongPass := svc.Login(ctx, "ana@example.com", "nope")
	_, _, errNoUser := svc.Login(ctx, "ghost@example.com", "nope")

	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", errWrongPass)
	}
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Error("login errors differ between wrong password and unknown email")
	}
}
