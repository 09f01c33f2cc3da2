package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
)

// The fakes below implement the repository contracts in memory, including
// the guarded-update semantics the usecases rely on. That keeps race and
// idempotency tests honest: a second settle or a lost CAS behaves exactly
// like it would against the real store.

var errNotFound = errors.New("record not found")

type fakeTxRepo struct {
	mu     sync.Mutex
	txs    map[string]*domain.Transaction
	events []*domain.TransactionEvent

	// codeCollisions makes the next N inserts fail as if the allocated
	// code lost the unique-index race against another instance.
	codeCollisions int
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txs: make(map[string]*domain.Transaction)}
}

func (r *fakeTxRepo) CreateTransaction(tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.txs {
		if existing.ListingID == tx.ListingID && existing.BuyerID == tx.BuyerID && !existing.Status.Terminal() {
			return domain.ErrDuplicateActiveTransaction
		}
	}
	if r.codeCollisions > 0 {
		r.codeCollisions--
		return domain.ErrCodeCollision
	}
	clone := *tx
	r.txs[tx.ID] = &clone
	return nil
}

func (r *fakeTxRepo) GetTransactionByID(txID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[txID]
	if !ok {
		return nil, errNotFound
	}
	clone := *tx
	return &clone, nil
}

func (r *fakeTxRepo) GetTransactionByCode(code string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.Code == code {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeTxRepo) GetActiveByListingBuyer(listingID, buyerID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.ListingID == listingID && tx.BuyerID == buyerID && !tx.Status.Terminal() {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) TransactionCodeInUse(code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTxRepo) UpdateStatusCAS(txID string, from []domain.TransactionStatus, to domain.TransactionStatus, set map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.casLocked(txID, from, to, set)
}

func (r *fakeTxRepo) casLocked(txID string, from []domain.TransactionStatus, to domain.TransactionStatus, set map[string]any) error {
	tx, ok := r.txs[txID]
	if !ok {
		return errNotFound
	}
	matched := false
	for _, status := range from {
		if tx.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return domain.ErrInvalidTransactionState
	}
	tx.Status = to
	tx.UpdatedAt = time.Now()
	for column, value := range set {
		switch column {
		case "paid_at":
			t := value.(time.Time)
			tx.PaidAt = &t
		case "transferred_at":
			t := value.(time.Time)
			tx.TransferredAt = &t
		case "auto_release_at":
			t := value.(time.Time)
			tx.AutoReleaseAt = &t
		case "completed_at":
			t := value.(time.Time)
			tx.CompletedAt = &t
		case "cancelled_at":
			t := value.(time.Time)
			tx.CancelledAt = &t
		case "cancel_reason":
			tx.CancelReason = value.(string)
		}
	}
	return nil
}

func (r *fakeTxRepo) AppendEvent(event *domain.TransactionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *event
	r.events = append(r.events, &clone)
	return nil
}

func (r *fakeTxRepo) ListEvents(txID string) ([]*domain.TransactionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TransactionEvent
	for _, e := range r.events {
		if e.TransactionID == txID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) FindPaymentExpired(now time.Time) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range r.txs {
		if (tx.Status == domain.StatusInitiated || tx.Status == domain.StatusAwaitingPayment) &&
			tx.PaymentDeadline.Before(now) {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) FindAutoReleasable(now time.Time) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range r.txs {
		if tx.Status == domain.StatusTransferPending && tx.AutoReleaseAt != nil && !tx.AutoReleaseAt.After(now) {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*domain.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[string]*domain.Offer)}
}

func (r *fakeOfferRepo) CreateOffer(offer *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.offers {
		if existing.ListingID == offer.ListingID && existing.BuyerID == offer.BuyerID &&
			existing.Status == domain.OfferPending {
			return domain.ErrDuplicatePendingOffer
		}
	}
	clone := *offer
	r.offers[offer.ID] = &clone
	return nil
}

func (r *fakeOfferRepo) GetOfferByID(offerID string) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[offerID]
	if !ok {
		return nil, errNotFound
	}
	clone := *offer
	return &clone, nil
}

func (r *fakeOfferRepo) GetPendingByListingBuyer(listingID, buyerID string) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, offer := range r.offers {
		if offer.ListingID == listingID && offer.BuyerID == buyerID && offer.Status == domain.OfferPending {
			clone := *offer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeOfferRepo) ListByListing(listingID string) ([]*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Offer
	for _, offer := range r.offers {
		if offer.ListingID == listingID {
			clone := *offer
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) UpdateStatusCAS(offerID string, to domain.OfferStatus, set map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[offerID]
	if !ok {
		return errNotFound
	}
	if offer.Status != domain.OfferPending {
		return domain.ErrOfferNotPending
	}
	offer.Status = to
	offer.UpdatedAt = time.Now()
	for column, value := range set {
		switch column {
		case "responded_at":
			t := value.(time.Time)
			offer.RespondedAt = &t
		case "counter_amount":
			offer.CounterAmount = value.(int64)
		case "counter_message":
			offer.CounterMessage = value.(string)
		}
	}
	return nil
}

func (r *fakeOfferRepo) RevertAcceptance(offerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[offerID]
	if !ok || offer.Status != domain.OfferAccepted {
		return domain.ErrOfferNotPending
	}
	offer.Status = domain.OfferPending
	offer.RespondedAt = nil
	return nil
}

func (r *fakeOfferRepo) ExpirePendingSiblings(listingID, acceptedOfferID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var buyers []string
	for _, offer := range r.offers {
		if offer.ListingID == listingID && offer.ID != acceptedOfferID && offer.Status == domain.OfferPending {
			offer.Status = domain.OfferExpired
			buyers = append(buyers, offer.BuyerID)
		}
	}
	return buyers, nil
}

func (r *fakeOfferRepo) FindExpiredPending(now time.Time) ([]*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Offer
	for _, offer := range r.offers {
		if offer.Status == domain.OfferPending && offer.ExpiresAt.Before(now) {
			clone := *offer
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[string]*domain.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*domain.Listing)}
}

func (r *fakeListingRepo) CreateListing(listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *listing
	r.listings[listing.ID] = &clone
	return nil
}

func (r *fakeListingRepo) GetListingByID(listingID string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[listingID]
	if !ok {
		return nil, errNotFound
	}
	clone := *listing
	return &clone, nil
}

func (r *fakeListingRepo) UpdateListingStatus(listingID string, status domain.ListingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[listingID]
	if !ok {
		return errNotFound
	}
	listing.Status = status
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment
	txs      *fakeTxRepo
}

func newFakePaymentRepo(txs *fakeTxRepo) *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*domain.Payment), txs: txs}
}

func (r *fakePaymentRepo) CreatePayment(payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *payment
	r.payments[payment.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) GetPaymentByExternalRef(externalRef string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ExternalRef == externalRef {
			clone := *p
			return &clone, nil
		}
	}
	return nil, errNotFound
}

func (r *fakePaymentRepo) ListByTransaction(txID string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if p.TransactionID == txID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) SettlePayment(paymentID, txID string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[paymentID]
	if !ok {
		return errNotFound
	}
	if payment.Status != domain.PaymentPending {
		return domain.ErrPaymentAlreadySettled
	}

	r.txs.mu.Lock()
	defer r.txs.mu.Unlock()
	err := r.txs.casLocked(txID,
		[]domain.TransactionStatus{domain.StatusAwaitingPayment},
		domain.StatusEscrowHeld,
		map[string]any{"paid_at": paidAt})
	if err != nil {
		return err
	}
	payment.Status = domain.PaymentSettled
	return nil
}

func (r *fakePaymentRepo) MarkPaymentOrphaned(paymentID string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[paymentID]
	if !ok {
		return errNotFound
	}
	if payment.Status != domain.PaymentPending {
		return domain.ErrPaymentAlreadySettled
	}
	payment.Status = domain.PaymentOrphaned
	payment.UpdatedAt = paidAt
	return nil
}

func (r *fakePaymentRepo) MarkPaymentFailed(paymentID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[paymentID]
	if !ok {
		return errNotFound
	}
	payment.Status = domain.PaymentFailed
	payment.FailReason = reason
	return nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []*domain.LedgerEntry
}

func (r *fakeLedgerRepo) CreateEntry(entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeLedgerRepo) createLocked(entries []*domain.LedgerEntry) {
	for _, entry := range entries {
		clone := *entry
		r.entries = append(r.entries, &clone)
	}
}

func (r *fakeLedgerRepo) ListByTransaction(txID string) ([]*domain.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.LedgerEntry
	for _, entry := range r.entries {
		if entry.TransactionID == txID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) UserBalance(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, entry := range r.entries {
		if entry.UserID == userID {
			total += entry.Amount
		}
	}
	return total, nil
}

type fakeDisputeRepo struct {
	mu       sync.Mutex
	disputes map[string]*domain.Dispute
	txs      *fakeTxRepo
	ledger   *fakeLedgerRepo
}

func newFakeDisputeRepo(txs *fakeTxRepo, ledger *fakeLedgerRepo) *fakeDisputeRepo {
	return &fakeDisputeRepo{disputes: make(map[string]*domain.Dispute), txs: txs, ledger: ledger}
}

func (r *fakeDisputeRepo) OpenDispute(dispute *domain.Dispute, fromStatuses []domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.disputes {
		if existing.TransactionID == dispute.TransactionID && existing.Status == domain.DisputeOpen {
			return domain.ErrDisputeAlreadyOpen
		}
	}

	r.txs.mu.Lock()
	defer r.txs.mu.Unlock()
	err := r.txs.casLocked(dispute.TransactionID, fromStatuses, domain.StatusDisputeOpened, nil)
	if err != nil {
		return err
	}
	clone := *dispute
	r.disputes[dispute.ID] = &clone
	return nil
}

func (r *fakeDisputeRepo) ResolveDispute(disputeID string, outcome domain.DisputeOutcome, resolvedBy string, entries []*domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[disputeID]
	if !ok {
		return errNotFound
	}
	if dispute.Status != domain.DisputeOpen {
		return domain.ErrDisputeNotOpen
	}

	r.txs.mu.Lock()
	defer r.txs.mu.Unlock()
	err := r.txs.casLocked(dispute.TransactionID,
		[]domain.TransactionStatus{domain.StatusDisputeOpened},
		domain.StatusDisputeResolved, nil)
	if err != nil {
		return err
	}

	now := time.Now()
	dispute.Status = domain.DisputeResolved
	dispute.Outcome = outcome
	dispute.ResolvedBy = resolvedBy
	dispute.ResolvedAt = &now

	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	r.ledger.createLocked(entries)
	return nil
}

func (r *fakeDisputeRepo) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[disputeID]
	if !ok {
		return nil, errNotFound
	}
	clone := *dispute
	return &clone, nil
}

func (r *fakeDisputeRepo) GetOpenByTransaction(txID string) (*domain.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dispute := range r.disputes {
		if dispute.TransactionID == txID && dispute.Status == domain.DisputeOpen {
			clone := *dispute
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeDisputeRepo) DisputeCodeInUse(code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dispute := range r.disputes {
		if dispute.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDisputeRepo) ListDisputes(status domain.DisputeStatus, page, limit int64) ([]*domain.Dispute, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Dispute
	for _, dispute := range r.disputes {
		if status == "" || dispute.Status == status {
			clone := *dispute
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*domain.ChatMessage
}

func (r *fakeMessageRepo) CreateMessage(msg *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *msg
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *fakeMessageRepo) ListByTransaction(txID string, page, limit int64) ([]*domain.ChatMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ChatMessage
	for _, msg := range r.messages {
		if msg.TransactionID == txID {
			out = append(out, msg)
		}
	}
	return out, int64(len(out)), nil
}

type notification struct {
	userID   string
	category domain.NotificationCategory
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) Notify(userID string, category domain.NotificationCategory, payload map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{userID: userID, category: category})
}

func (n *fakeNotifier) categories() []domain.NotificationCategory {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.NotificationCategory, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.category)
	}
	return out
}

type fakePaymentClient struct {
	mu      sync.Mutex
	err     error
	charges int
}

func (c *fakePaymentClient) CreateCharge(ctx context.Context, input *domain.CreateChargeInput) (*domain.ChargeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.charges++
	return &domain.ChargeResult{
		ExternalRef: fmt.Sprintf("chg_%d", c.charges),
		QRPayload:   "00020126pix",
	}, nil
}

type fakeFraudClient struct {
	assessment *domain.RiskAssessment
	err        error
}

func (c *fakeFraudClient) Score(ctx context.Context, account *domain.AccountFacts, listing *domain.ListingFacts) (*domain.RiskAssessment, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.assessment != nil {
		return c.assessment, nil
	}
	return &domain.RiskAssessment{
		Score:          0.1,
		Level:          domain.RiskLow,
		Recommendation: domain.RecommendAllow,
	}, nil
}
