package disputedto

import "github.com/repassafesta/escrow-service/internal/domain"

type ListDisputesOutput struct {
	Disputes   []*domain.Dispute
	Pagination Pagination
}

type Pagination struct {
	CurrentPage  int64
	TotalPages   int64
	TotalItems   int64
	ItemsPerPage int64
}
