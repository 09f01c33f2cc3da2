package disputedto

type OpenDisputeInput struct {
	TransactionID string
	OpenerID      string
	Reason        string
	Description   string
	EvidenceURLs  []string
}

type ResolveDisputeInput struct {
	DisputeID    string
	ResolverID   string
	ResolverRole string
	Outcome      string
	Note         string
}
