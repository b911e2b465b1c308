// Package balance computes net-balance views from a ledger snapshot.
//
// Everything in this package is a pure function: it reads a snapshot, derives
// balances and returns them. There is no cached or incrementally-maintained
// state; callers recompute on demand against whatever snapshot they hold.
//
// Sign convention: balances are relative to the snapshot's current user.
// A positive value means the counterparty owes the current user; negative
// means the current user owes them.
//
// Shares stored on each expense are the single source of truth at every
// scope. Equal splits bake equal shares in at creation, unequal splits store
// the custom shares, and the engine sums whatever is stored. Pending
// settlements never count; only confirmed ones do.
package balance

import (
	"math"
	"sort"

	"github.com/divvyup/divvy/internal/ledger"
)

// epsilon is the magnitude below which a balance counts as settled. Amounts
// are two-decimal currency values; anything smaller is floating-point drift.
const epsilon = 0.01

// Settled reports whether a balance is close enough to zero to display as
// "settled up".
func Settled(amount float64) bool {
	return math.Abs(amount) < epsilon
}

// Entry is one counterparty's balance against the current user.
type Entry struct {
	UserID string
	Amount float64
}

// Summary is the global balance view: the current user against everyone,
// across all groups and peer-to-peer expenses combined.
type Summary struct {
	// Net is the sum of all per-counterparty balances. Positive means the
	// current user is net owed money.
	Net float64

	// PerUser maps every other user to their balance against the current
	// user, including settled (near-zero) entries.
	PerUser map[string]float64

	// YouAreOwed lists counterparties with positive balances, largest
	// first. Ties keep the users' insertion order.
	YouAreOwed []Entry

	// YouOwe lists counterparties with negative balances, largest debt
	// first (most negative leading). Ties keep insertion order.
	YouOwe []Entry
}

// Balances computes the global per-counterparty view for the snapshot's
// current user.
func Balances(snap ledger.Snapshot) Summary {
	me := snap.CurrentUserID

	perUser := make(map[string]float64, len(snap.Users))
	for _, u := range snap.Users {
		if u.ID != me {
			perUser[u.ID] = 0
		}
	}

	for _, e := range snap.Expenses {
		if e.PayerID == me {
			// Everyone else on the expense owes the current user
			// their stored share.
			for _, p := range e.Participants {
				if p.UserID != me {
					perUser[p.UserID] += p.Share
				}
			}
		} else if share, ok := e.ParticipantShare(me); ok {
			perUser[e.PayerID] -= share
		}
	}

	for _, s := range snap.Settlements {
		if !s.Confirmed() {
			continue
		}
		if s.FromUserID == me {
			perUser[s.ToUserID] += s.Amount
		} else if s.ToUserID == me {
			perUser[s.FromUserID] -= s.Amount
		}
	}

	summary := Summary{PerUser: perUser}
	// Walk users in insertion order so equal balances keep a stable rank.
	for _, u := range snap.Users {
		bal, ok := perUser[u.ID]
		if !ok {
			continue
		}
		summary.Net += bal
		switch {
		case bal >= epsilon:
			summary.YouAreOwed = append(summary.YouAreOwed, Entry{UserID: u.ID, Amount: bal})
		case bal <= -epsilon:
			summary.YouOwe = append(summary.YouOwe, Entry{UserID: u.ID, Amount: bal})
		}
	}
	sort.SliceStable(summary.YouAreOwed, func(i, j int) bool {
		return summary.YouAreOwed[i].Amount > summary.YouAreOwed[j].Amount
	})
	sort.SliceStable(summary.YouOwe, func(i, j int) bool {
		return summary.YouOwe[i].Amount < summary.YouOwe[j].Amount
	})
	return summary
}

// FriendBalance computes the pairwise balance between the current user and
// one friend. Only peer-to-peer history counts: expenses with no group whose
// exactly-two participants are the pair, and confirmed ungrouped settlements
// between them. Group activity is invisible to this view.
func FriendBalance(snap ledger.Snapshot, friendID string) float64 {
	me := snap.CurrentUserID
	bal := 0.0

	for _, e := range snap.Expenses {
		if !e.P2P() || len(e.Participants) != 2 {
			continue
		}
		myShare, meIn := e.ParticipantShare(me)
		friendShare, friendIn := e.ParticipantShare(friendID)
		if !meIn || !friendIn {
			continue
		}
		// Stored shares, same rule as the global view.
		if e.PayerID == me {
			bal += friendShare
		} else if e.PayerID == friendID {
			bal -= myShare
		}
	}

	for _, s := range snap.Settlements {
		if s.GroupID != "" || !s.Confirmed() {
			continue
		}
		if s.FromUserID == me && s.ToUserID == friendID {
			bal += s.Amount
		}
		if s.FromUserID == friendID && s.ToUserID == me {
			bal -= s.Amount
		}
	}
	return bal
}

// GroupBalance computes the current user's net position inside one group:
// group-scoped expenses with stored shares, plus confirmed settlements
// scoped to that group.
func GroupBalance(snap ledger.Snapshot, groupID string) float64 {
	me := snap.CurrentUserID
	bal := 0.0

	for _, e := range snap.Expenses {
		if e.GroupID != groupID {
			continue
		}
		if e.PayerID == me {
			for _, p := range e.Participants {
				if p.UserID != me {
					bal += p.Share
				}
			}
		} else if share, ok := e.ParticipantShare(me); ok {
			bal -= share
		}
	}

	for _, s := range snap.Settlements {
		if s.GroupID != groupID || !s.Confirmed() {
			continue
		}
		if s.FromUserID == me {
			bal += s.Amount
		}
		if s.ToUserID == me {
			bal -= s.Amount
		}
	}
	return bal
}

// FriendSummary is one row of the friends view: a counterparty and their
// global balance against the current user.
type FriendSummary struct {
	UserID      string
	DisplayName string
	Balance     float64
	Settled     bool
}

// FriendSummaries returns a row per friend in user insertion order, using
// the global balance for each.
func FriendSummaries(snap ledger.Snapshot) []FriendSummary {
	summary := Balances(snap)
	friends := make([]FriendSummary, 0, len(snap.Users))
	for _, u := range snap.Users {
		if u.ID == snap.CurrentUserID {
			continue
		}
		bal := summary.PerUser[u.ID]
		friends = append(friends, FriendSummary{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Balance:     bal,
			Settled:     Settled(bal),
		})
	}
	return friends
}
