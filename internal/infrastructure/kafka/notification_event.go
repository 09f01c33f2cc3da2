package publisher

import "github.com/repassafesta/escrow-service/internal/domain"

// NotificationEvent is the wire shape consumed by the notification
// service (e-mail / in-app push). Delivery mechanics are out of scope
// here; the escrow core only guarantees one publish attempt per state
// transition.
type NotificationEvent struct {
	UserID   string                      `json:"user_id"`
	Category domain.NotificationCategory `json:"category"`
	Payload  map[string]string           `json:"payload,omitempty"`
}
