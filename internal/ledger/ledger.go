// Package ledger holds the authoritative collections of users, groups,
// expenses and settlements, and the small set of mutations they accept.
//
// The ledger is append/update only: expenses and groups are never edited or
// deleted, and the only in-place update anywhere is a settlement's status
// moving from pending to confirmed. Every mutation validates its input and
// rejects it with a typed error before touching state. Reads go through
// Snapshot, which hands out a deep copy, so the balance engine never observes
// a half-applied mutation.
//
// All methods serialize on an internal mutex. The model is single-actor, but
// the mutations read-then-append and are not safe to interleave, so the lock
// is what makes the ledger usable behind a server.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/divvyup/divvy/internal/models"
)

// shareTolerance is the slack allowed between an expense amount and the sum
// of its participant shares. Amounts are currency values with two meaningful
// decimal places; anything below a cent is floating-point noise.
const shareTolerance = 0.01

// Ledger is the mutable container owning all four entity collections.
type Ledger struct {
	mu sync.Mutex

	currentUserID string
	users         []models.User
	groups        []models.Group
	expenses      []models.Expense
	settlements   []models.Settlement
}

// Snapshot is an immutable read view of the ledger for the balance engine.
// It shares no memory with the ledger; holding one across later mutations is
// safe and simply shows the state as of the time it was taken.
type Snapshot struct {
	Users         []models.User
	Groups        []models.Group
	Expenses      []models.Expense
	Settlements   []models.Settlement
	CurrentUserID string
}

// New creates a ledger with currentUser as the viewpoint for all balance
// computations. The current user is stored like any other user but can never
// be removed or replaced.
func New(currentUser models.User) (*Ledger, error) {
	l := &Ledger{}
	u, err := l.AddUser(currentUser)
	if err != nil {
		return nil, err
	}
	l.currentUserID = u.ID
	return l, nil
}

// CurrentUserID returns the ID of the distinguished current user.
func (l *Ledger) CurrentUserID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentUserID
}

// AddUser appends a user. The ID and CreatedAt are generated when unset.
// Fails with a ValidationError on an empty display name or a duplicate ID.
func (l *Ledger) AddUser(user models.User) (models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if user.DisplayName == "" {
		return models.User{}, &ValidationError{Field: "displayName", Reason: "must not be empty"}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	} else if l.findUser(user.ID) != nil {
		return models.User{}, &ValidationError{Field: "id", Reason: "user already exists: " + user.ID}
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	l.users = append(l.users, user)
	return user, nil
}

// AddGroup appends a group. Fails with a ValidationError if the member list
// is empty, omits the current user, or references an unknown user. The UI
// guarantees the current user is a member, but the store enforces it too.
func (l *Ledger) AddGroup(group models.Group) (models.Group, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if group.Name == "" {
		return models.Group{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(group.MemberIDs) == 0 {
		return models.Group{}, &ValidationError{Field: "memberIds", Reason: "must not be empty"}
	}
	seen := make(map[string]bool, len(group.MemberIDs))
	hasCurrent := false
	for _, id := range group.MemberIDs {
		if seen[id] {
			return models.Group{}, &ValidationError{Field: "memberIds", Reason: "duplicate member: " + id}
		}
		seen[id] = true
		if l.findUser(id) == nil {
			return models.Group{}, &ValidationError{Field: "memberIds", Reason: "unknown user: " + id}
		}
		if id == l.currentUserID {
			hasCurrent = true
		}
	}
	if !hasCurrent {
		return models.Group{}, &ValidationError{Field: "memberIds", Reason: "must include the current user"}
	}

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.MemberIDs = append([]string(nil), group.MemberIDs...)

	l.groups = append(l.groups, group)
	return group, nil
}

// AddExpense appends an expense to the front of history (most-recent-first is
// the display convention; the balance engine is order-independent).
//
// Fails with a ValidationError on a non-positive amount, an empty or
// duplicated participant list, a negative share, an unknown user or group, or
// an unknown category. Fails with an ImbalancedSplitError when the shares do
// not sum to the amount within 0.01.
func (l *Ledger) AddExpense(expense models.Expense) (models.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expense.Amount <= 0 {
		return models.Expense{}, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if expense.Description == "" {
		return models.Expense{}, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if len(expense.Participants) == 0 {
		return models.Expense{}, &ValidationError{Field: "participants", Reason: "must not be empty"}
	}
	if !expense.Category.Valid() {
		return models.Expense{}, &ValidationError{Field: "category", Reason: "unknown category: " + string(expense.Category)}
	}
	// The payer need not be a participant, but must exist.
	if l.findUser(expense.PayerID) == nil {
		return models.Expense{}, &ValidationError{Field: "payerId", Reason: "unknown user: " + expense.PayerID}
	}
	if expense.GroupID != "" && l.findGroup(expense.GroupID) == nil {
		return models.Expense{}, &ValidationError{Field: "groupId", Reason: "unknown group: " + expense.GroupID}
	}

	seen := make(map[string]bool, len(expense.Participants))
	shareSum := 0.0
	for _, p := range expense.Participants {
		if seen[p.UserID] {
			return models.Expense{}, &ValidationError{Field: "participants", Reason: "duplicate participant: " + p.UserID}
		}
		seen[p.UserID] = true
		if l.findUser(p.UserID) == nil {
			return models.Expense{}, &ValidationError{Field: "participants", Reason: "unknown user: " + p.UserID}
		}
		if p.Share < 0 {
			return models.Expense{}, &ValidationError{Field: "participants", Reason: "negative share for " + p.UserID}
		}
		shareSum += p.Share
	}
	if diff := shareSum - expense.Amount; diff > shareTolerance || diff < -shareTolerance {
		return models.Expense{}, &ImbalancedSplitError{Amount: expense.Amount, ShareSum: shareSum}
	}

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	expense.Participants = append([]models.Participant(nil), expense.Participants...)

	l.expenses = append([]models.Expense{expense}, l.expenses...)
	return expense, nil
}

// RecordSettlement appends a settlement with status forced to pending. The
// payer records it; it affects no balance until the recipient confirms.
//
// Fails with a ValidationError on a non-positive amount, identical parties,
// an unknown user, or an unknown group.
func (l *Ledger) RecordSettlement(settlement models.Settlement) (models.Settlement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if settlement.Amount <= 0 {
		return models.Settlement{}, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if settlement.FromUserID == settlement.ToUserID {
		return models.Settlement{}, &ValidationError{Field: "toUserId", Reason: "payer and recipient must differ"}
	}
	if l.findUser(settlement.FromUserID) == nil {
		return models.Settlement{}, &ValidationError{Field: "fromUserId", Reason: "unknown user: " + settlement.FromUserID}
	}
	if l.findUser(settlement.ToUserID) == nil {
		return models.Settlement{}, &ValidationError{Field: "toUserId", Reason: "unknown user: " + settlement.ToUserID}
	}
	if settlement.GroupID != "" && l.findGroup(settlement.GroupID) == nil {
		return models.Settlement{}, &ValidationError{Field: "groupId", Reason: "unknown group: " + settlement.GroupID}
	}

	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	settlement.Status = models.SettlementPending

	l.settlements = append([]models.Settlement{settlement}, l.settlements...)
	return settlement, nil
}

// ConfirmSettlement transitions a settlement to confirmed. Only the recipient
// may confirm receipt. Confirming an already-confirmed settlement is a no-op
// returning the settlement unchanged.
//
// Fails with a NotFoundError for an unknown ID and a ValidationError when
// byUserID is not the settlement's recipient.
func (l *Ledger) ConfirmSettlement(id, byUserID string) (models.Settlement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.settlements {
		s := &l.settlements[i]
		if s.ID != id {
			continue
		}
		if s.Status == models.SettlementConfirmed {
			return *s, nil
		}
		if byUserID != s.ToUserID {
			return models.Settlement{}, &ValidationError{Field: "userId", Reason: "only the recipient may confirm"}
		}
		s.Status = models.SettlementConfirmed
		return *s, nil
	}
	return models.Settlement{}, &NotFoundError{Kind: "settlement", ID: id}
}

// Snapshot returns a deep-copied read view of all four collections.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		Users:         append([]models.User(nil), l.users...),
		Groups:        make([]models.Group, len(l.groups)),
		Expenses:      make([]models.Expense, len(l.expenses)),
		Settlements:   append([]models.Settlement(nil), l.settlements...),
		CurrentUserID: l.currentUserID,
	}
	for i, g := range l.groups {
		g.MemberIDs = append([]string(nil), g.MemberIDs...)
		snap.Groups[i] = g
	}
	for i, e := range l.expenses {
		e.Participants = append([]models.Participant(nil), e.Participants...)
		snap.Expenses[i] = e
	}
	return snap
}

// User returns the user with the given ID from snap, if present.
func (s *Snapshot) User(id string) (models.User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Group returns the group with the given ID from snap, if present.
func (s *Snapshot) Group(id string) (models.Group, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}

func (l *Ledger) findUser(id string) *models.User {
	for i := range l.users {
		if l.users[i].ID == id {
			return &l.users[i]
		}
	}
	return nil
}

func (l *Ledger) findGroup(id string) *models.Group {
	for i := range l.groups {
		if l.groups[i].ID == id {
			return &l.groups[i]
		}
	}
	return nil
}
