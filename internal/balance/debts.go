package balance

import (
	"sort"

	"github.com/divvyup/divvy/internal/ledger"
)

// MemberBalance is one group member's aggregate position inside a group,
// independent of any viewpoint.
type MemberBalance struct {
	UserID string

	// TotalPaid is everything this member paid up front: expense amounts
	// they covered plus settlements they sent.
	TotalPaid float64

	// TotalOwed is everything attributed to this member: their stored
	// shares plus settlements they received.
	TotalOwed float64

	// Net is TotalPaid - TotalOwed. Positive = owed money by the group.
	Net float64
}

// DebtEdge is one settling transfer in the simplified debt graph.
type DebtEdge struct {
	FromUserID string
	ToUserID   string
	Amount     float64
}

// GroupMemberBalances aggregates every member's position inside one group
// and reduces the debt graph to a short list of transfers that settles it.
//
// Aggregation: per expense, the payer's TotalPaid grows by the amount and
// each participant's TotalOwed by their stored share; per confirmed
// settlement, the sender's TotalPaid and the recipient's TotalOwed grow by
// the settlement amount. Transfers are then matched greedily, largest debtor
// against largest creditor, which settles n members in at most n-1 edges.
//
// Members appear in group membership order; users who show up on a group
// expense without being members follow in first-appearance order.
func GroupMemberBalances(snap ledger.Snapshot, groupID string) ([]MemberBalance, []DebtEdge, error) {
	group, ok := snap.Group(groupID)
	if !ok {
		return nil, nil, &ledger.NotFoundError{Kind: "group", ID: groupID}
	}

	index := make(map[string]int, len(group.MemberIDs))
	members := make([]MemberBalance, 0, len(group.MemberIDs))
	at := func(userID string) *MemberBalance {
		i, ok := index[userID]
		if !ok {
			i = len(members)
			index[userID] = i
			members = append(members, MemberBalance{UserID: userID})
		}
		return &members[i]
	}
	for _, id := range group.MemberIDs {
		at(id)
	}

	for _, e := range snap.Expenses {
		if e.GroupID != groupID {
			continue
		}
		at(e.PayerID).TotalPaid += e.Amount
		for _, p := range e.Participants {
			at(p.UserID).TotalOwed += p.Share
		}
	}
	for _, s := range snap.Settlements {
		if s.GroupID != groupID || !s.Confirmed() {
			continue
		}
		at(s.FromUserID).TotalPaid += s.Amount
		at(s.ToUserID).TotalOwed += s.Amount
	}

	for i := range members {
		members[i].Net = members[i].TotalPaid - members[i].TotalOwed
	}

	return members, simplifyDebts(members), nil
}

// simplifyDebts greedily pairs debtors with creditors, biggest first, so the
// whole group settles in few transfers. Residuals under epsilon are dropped
// as floating-point noise.
func simplifyDebts(members []MemberBalance) []DebtEdge {
	var debtors, creditors []MemberBalance
	for _, m := range members {
		switch {
		case m.Net <= -epsilon:
			debtors = append(debtors, m)
		case m.Net >= epsilon:
			creditors = append(creditors, m)
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].Net < debtors[j].Net })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].Net > creditors[j].Net })

	owed := make(map[string]float64, len(debtors))
	due := make(map[string]float64, len(creditors))
	for _, d := range debtors {
		owed[d.UserID] = -d.Net
	}
	for _, c := range creditors {
		due[c.UserID] = c.Net
	}

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := debtors[i].UserID
		creditor := creditors[j].UserID

		amount := owed[debtor]
		if due[creditor] < amount {
			amount = due[creditor]
		}
		if amount >= epsilon {
			edges = append(edges, DebtEdge{FromUserID: debtor, ToUserID: creditor, Amount: amount})
		}

		owed[debtor] -= amount
		due[creditor] -= amount
		if owed[debtor] < epsilon {
			i++
		}
		if due[creditor] < epsilon {
			j++
		}
	}
	return edges
}
