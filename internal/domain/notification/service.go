package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) Create(ctx context.Context, n *Notification) error {
	if n.Title == "" {
		return fmt.Errorf("title is required")
	}
	if n.Message == "" {
		return fmt.Errorf("message is required")
	}
	switch n.Kind {
	case KindAlert, KindSuccess, KindInfo, KindError:
	case "":
		n.Kind = KindInfo
	default:
		return fmt.Errorf("invalid kind: %s", n.Kind)
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Notification, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Cleanup removes read notifications older than the retention window and
// returns how many were deleted.
func (s *Service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return s.repo.DeleteReadBefore(ctx, cutoff)
}

// StartRetentionSweep runs Cleanup on a ticker until ctx is cancelled.
func (s *Service) StartRetentionSweep(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info().
		Dur("interval", interval).
		Dur("retention", retention).
		Msg("notification retention sweep started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("notification retention sweep stopped")
			return
		case <-ticker.C:
			removed, err := s.Cleanup(ctx, retention)
			if err != nil {
				s.log.Warn().Err(err).Msg("notification cleanup failed")
				continue
			}
			if removed > 0 {
				s.log.Info().Int64("removed", removed).Msg("old notifications removed")
			}
		}
	}
}
