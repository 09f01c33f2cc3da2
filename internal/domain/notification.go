package domain

type NotificationCategory string

const (
	NotifyOfferReceived      NotificationCategory = "OFFER_RECEIVED"
	NotifyOfferAccepted      NotificationCategory = "OFFER_ACCEPTED"
	NotifyOfferRejected      NotificationCategory = "OFFER_REJECTED"
	NotifyOfferCountered     NotificationCategory = "OFFER_COUNTERED"
	NotifyOfferExpired       NotificationCategory = "OFFER_EXPIRED"
	NotifyTransactionCreated NotificationCategory = "TRANSACTION_CREATED"
	NotifyPaymentRequested   NotificationCategory = "PAYMENT_REQUESTED"
	NotifyEscrowHeld         NotificationCategory = "ESCROW_HELD"
	NotifyTransferAttested   NotificationCategory = "TRANSFER_ATTESTED"
	NotifyFundsReleased      NotificationCategory = "FUNDS_RELEASED"
	NotifyTransactionCancel  NotificationCategory = "TRANSACTION_CANCELLED"
	NotifyRefundIssued       NotificationCategory = "REFUND_ISSUED"
	NotifyDisputeOpened      NotificationCategory = "DISPUTE_OPENED"
	NotifyDisputeResolved    NotificationCategory = "DISPUTE_RESOLVED"
	NotifyMessageReceived    NotificationCategory = "MESSAGE_RECEIVED"
)

// NotificationPublisher is the fire-and-forget outbound channel. Callers
// never block on delivery and never see errors from it; implementations
// log failures and move on.
type NotificationPublisher interface {
	Notify(userID string, category NotificationCategory, payload map[string]string)
}
