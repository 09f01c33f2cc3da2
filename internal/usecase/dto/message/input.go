package messagedto

type SendMessageInput struct {
	TransactionID string
	SenderID      string
	Body          string
}

type ListMessagesInput struct {
	TransactionID string
	ActorID       string
	Page          int64
	Limit         int64
}
