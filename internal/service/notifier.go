package service

import (
	"github.com/google/uuid"
)

// События, отправляемые в канал уведомлений после успешных мутаций.
const (
	EventQuoteAwarded      = "quote.awarded"
	EventQuoteRejected     = "quote.rejected"
	EventAwardAccepted     = "award.accepted"
	EventMilestoneReleased = "milestone.released"
	EventDisputeOpened     = "dispute.opened"
	EventDisputeResolved   = "dispute.resolved"
)

// Notifier интерфейс для отправки уведомлений пользователям.
// Реализуется WebSocket-хабом; доставка fire-and-forget.
type Notifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data interface{}) error
}
