package notify

import (
	"context"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/services"
)

// Multi forwards each ticket to every notifier in order.
type Multi []services.TicketNotifier

func (m Multi) TicketCreated(ctx context.Context, msg *models.ContactMessage) {
	for _, n := range m {
		n.TicketCreated(ctx, msg)
	}
}
