package models

// SettlementStatus tracks a settlement through its one-way lifecycle.
type SettlementStatus string

const (
	// SettlementPending is the initial status: the payer recorded the
	// payment but the recipient has not acknowledged it. Pending
	// settlements never affect balances.
	SettlementPending SettlementStatus = "pending"

	// SettlementConfirmed means the recipient acknowledged receipt. Only
	// confirmed settlements affect balances. Terminal: there is no
	// transition back to pending.
	SettlementConfirmed SettlementStatus = "confirmed"
)

// Settlement represents a payment made outside the app (cash, bank transfer)
// being recorded to pay down a debt.
//
// A settlement is created as pending by the payer and confirmed by the
// recipient. Status is the only field of any model that ever changes after
// creation.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID scopes the settlement to a group, or "" for a peer-to-peer
	// settlement.
	GroupID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount. Always positive.
	Amount float64

	// Status is the lifecycle state: pending until the recipient confirms.
	Status SettlementStatus

	// Note is an optional description for the settlement.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}

// Confirmed reports whether the settlement counts toward balances.
func (s *Settlement) Confirmed() bool {
	return s.Status == SettlementConfirmed
}
