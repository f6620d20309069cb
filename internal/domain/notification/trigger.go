package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dripwatch/dripwatch/internal/domain/drip"
)

// Trigger creates ward notifications for drip lifecycle events. Creation
// failures are logged and swallowed so monitoring never blocks the write
// that caused the event.
type Trigger struct {
	svc *Service
	log zerolog.Logger
}

func NewTrigger(svc *Service, log zerolog.Logger) *Trigger {
	return &Trigger{svc: svc, log: log}
}

// DripStatusChanged fires a notification for a bed whose drip status moved
// from oldStatus to newStatus. Equal statuses are a no-op.
func (t *Trigger) DripStatusChanged(ctx context.Context, bedID uuid.UUID, bedCode string, oldStatus, newStatus drip.Status) {
	if oldStatus == newStatus {
		return
	}

	var title, message, kind string
	switch newStatus {
	case drip.StatusAlerta:
		title = "Alerta de Leito"
		message = fmt.Sprintf("O leito %s entrou em estado de alerta.", bedCode)
		kind = KindAlert
	case drip.StatusFinalizado:
		title = "Medicação Finalizada"
		message = fmt.Sprintf("A medicação do leito %s foi finalizada.", bedCode)
		kind = KindSuccess
	case drip.StatusEmAndamento:
		title = "Medicação Iniciada"
		message = fmt.Sprintf("Nova medicação iniciada no leito %s.", bedCode)
		kind = KindInfo
	case drip.StatusPausado:
		title = "Medicação Pausada"
		message = fmt.Sprintf("A medicação do leito %s foi pausada.", bedCode)
		kind = KindInfo
	default:
		title = "Status do Leito Alterado"
		message = fmt.Sprintf("O status do leito %s foi alterado.", bedCode)
		kind = KindInfo
	}

	t.create(ctx, bedID, title, message, kind)
}

// InfusionStarted fires the start notification used by the lifecycle manager
// and the device ingress.
func (t *Trigger) InfusionStarted(ctx context.Context, bedID uuid.UUID, bedCode string) {
	t.create(ctx, bedID,
		"Medicação Iniciada",
		fmt.Sprintf("Nova medicação iniciada no leito %s.", bedCode),
		KindInfo,
	)
}

func (t *Trigger) create(ctx context.Context, bedID uuid.UUID, title, message, kind string) {
	n := &Notification{
		BedID:   &bedID,
		Title:   title,
		Message: message,
		Kind:    kind,
	}
	if err := t.svc.Create(ctx, n); err != nil {
		t.log.Warn().Err(err).
			Str("bed_id", bedID.String()).
			Str("kind", kind).
			Msg("failed to create notification")
	}
}
