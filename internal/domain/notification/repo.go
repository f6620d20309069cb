package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a notification listing. Nil fields are ignored.
type ListFilter struct {
	Read  *bool
	BedID *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
