package models

// Category classifies an expense for display and filtering.
type Category string

const (
	CategoryFood   Category = "Food"
	CategoryTravel Category = "Travel"
	CategoryHome   Category = "Home"
	CategoryOther  Category = "Other"
)

// Categories lists all known expense categories in display order.
var Categories = []Category{CategoryFood, CategoryTravel, CategoryHome, CategoryOther}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryHome, CategoryOther:
		return true
	}
	return false
}

// Participant is one user's stake in an expense.
type Participant struct {
	// UserID identifies the participating user. Unique within one expense.
	UserID string

	// Share is the portion of the expense amount attributed to this user.
	// Non-negative. Shares across all participants sum to the expense amount
	// (within a 0.01 tolerance).
	Share float64
}

// Expense represents a paid amount split across participants.
//
// Expenses are immutable after creation: there is no edit or delete
// operation. The payer need not be a participant; a payer can cover an
// expense entirely on behalf of others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to, or "" for a
	// peer-to-peer expense with no group association.
	GroupID string

	// Description is the human-readable label (e.g., "Dinner").
	Description string

	// Amount is the full amount paid. Always positive.
	Amount float64

	// PayerID is the user who paid the full amount up front.
	PayerID string

	// Participants are the users splitting this expense with their shares,
	// in the order they were selected at creation.
	Participants []Participant

	// Category classifies the expense.
	Category Category

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}

// P2P reports whether the expense has no group association.
func (e *Expense) P2P() bool {
	return e.GroupID == ""
}

// ParticipantShare returns the stored share for userID and whether that
// user participates in the expense.
func (e *Expense) ParticipantShare(userID string) (float64, bool) {
	for _, p := range e.Participants {
		if p.UserID == userID {
			return p.Share, true
		}
	}
	return 0, false
}

// SplitEqually builds a participant list where every user carries an equal
// share of amount. This is how "split equally" bakes shares into the expense
// at creation time; the balance engine reads these shares back verbatim.
func SplitEqually(amount float64, userIDs []string) []Participant {
	if len(userIDs) == 0 {
		return nil
	}
	share := amount / float64(len(userIDs))
	participants := make([]Participant, len(userIDs))
	for i, id := range userIDs {
		participants[i] = Participant{UserID: id, Share: share}
	}
	return participants
}

// PerHeadShare returns the equal-division share of amount across n people.
// Display helper only: authoritative balance math always reads the shares
// stored on the expense.
func PerHeadShare(amount float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return amount / float64(n)
}
