package balance

import (
	"sort"

	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
)

// ActivityKind discriminates the two event kinds in a feed.
type ActivityKind string

const (
	ActivityExpense    ActivityKind = "expense"
	ActivitySettlement ActivityKind = "settlement"
)

// ActivityItem is a tagged variant: exactly one of Expense or Settlement is
// set, indicated by Kind. Consumers switch on Kind and must handle both.
type ActivityItem struct {
	Kind       ActivityKind
	Expense    *models.Expense
	Settlement *models.Settlement
}

// Time returns the item's creation timestamp regardless of kind.
func (a ActivityItem) Time() int64 {
	switch a.Kind {
	case ActivityExpense:
		return a.Expense.CreatedAt
	default:
		return a.Settlement.CreatedAt
	}
}

// GroupActivity merges a group's expenses and settlements into one feed,
// newest first. Items with equal timestamps list expenses ahead of
// settlements.
func GroupActivity(snap ledger.Snapshot, groupID string) []ActivityItem {
	var feed []ActivityItem
	for i := range snap.Expenses {
		if snap.Expenses[i].GroupID == groupID {
			feed = append(feed, ActivityItem{Kind: ActivityExpense, Expense: &snap.Expenses[i]})
		}
	}
	for i := range snap.Settlements {
		if snap.Settlements[i].GroupID == groupID {
			feed = append(feed, ActivityItem{Kind: ActivitySettlement, Settlement: &snap.Settlements[i]})
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Time() > feed[j].Time()
	})
	return feed
}
