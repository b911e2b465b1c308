package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/divvyup/divvy/internal/balance"
	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
)

type createGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

func (s *Service) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.ledger.AddGroup(models.Group{Name: req.Name, MemberIDs: req.MemberIDs})
	if err != nil {
		slog.Error("CreateGroup failed", "error", err)
		writeError(w, err)
		return
	}
	s.mirror(r.Context(), "group", func(ctx context.Context) error { return s.store.SaveGroup(ctx, &group) })

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.MemberIDs))
	writeJSON(w, http.StatusCreated, toGroupJSON(group))
}

func (s *Service) listGroups(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.Snapshot()
	groups := make([]groupJSON, len(snap.Groups))
	for i, g := range snap.Groups {
		groups[i] = toGroupJSON(g)
	}
	writeJSON(w, http.StatusOK, groups)
}

type groupBalanceResponse struct {
	GroupID string  `json:"groupId"`
	Balance float64 `json:"balance"`
	Settled bool    `json:"settled"`
}

func (s *Service) groupBalance(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	snap := s.ledger.Snapshot()
	if _, ok := snap.Group(groupID); !ok {
		writeError(w, &ledger.NotFoundError{Kind: "group", ID: groupID})
		return
	}

	bal := balance.GroupBalance(snap, groupID)
	writeJSON(w, http.StatusOK, groupBalanceResponse{
		GroupID: groupID,
		Balance: bal,
		Settled: balance.Settled(bal),
	})
}

type memberBalanceJSON struct {
	UserID    string  `json:"userId"`
	TotalPaid float64 `json:"totalPaid"`
	TotalOwed float64 `json:"totalOwed"`
	Net       float64 `json:"net"`
}

type debtEdgeJSON struct {
	FromUserID string  `json:"fromUserId"`
	ToUserID   string  `json:"toUserId"`
	Amount     float64 `json:"amount"`
}

type groupMembersResponse struct {
	Members   []memberBalanceJSON `json:"members"`
	Transfers []debtEdgeJSON      `json:"transfers"`
}

func (s *Service) groupMembers(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	snap := s.ledger.Snapshot()

	members, transfers, err := balance.GroupMemberBalances(snap, groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := groupMembersResponse{
		Members:   make([]memberBalanceJSON, len(members)),
		Transfers: make([]debtEdgeJSON, len(transfers)),
	}
	for i, m := range members {
		resp.Members[i] = memberBalanceJSON{
			UserID:    m.UserID,
			TotalPaid: m.TotalPaid,
			TotalOwed: m.TotalOwed,
			Net:       m.Net,
		}
	}
	for i, t := range transfers {
		resp.Transfers[i] = debtEdgeJSON{FromUserID: t.FromUserID, ToUserID: t.ToUserID, Amount: t.Amount}
	}
	writeJSON(w, http.StatusOK, resp)
}

type activityItemJSON struct {
	Kind       string          `json:"kind"`
	Expense    *expenseJSON    `json:"expense,omitempty"`
	Settlement *settlementJSON `json:"settlement,omitempty"`
}

func (s *Service) groupActivity(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	snap := s.ledger.Snapshot()
	if _, ok := snap.Group(groupID); !ok {
		writeError(w, &ledger.NotFoundError{Kind: "group", ID: groupID})
		return
	}

	feed := balance.GroupActivity(snap, groupID)
	items := make([]activityItemJSON, len(feed))
	for i, item := range feed {
		switch item.Kind {
		case balance.ActivityExpense:
			e := toExpenseJSON(*item.Expense)
			items[i] = activityItemJSON{Kind: string(item.Kind), Expense: &e}
		case balance.ActivitySettlement:
			st := toSettlementJSON(*item.Settlement)
			items[i] = activityItemJSON{Kind: string(item.Kind), Settlement: &st}
		}
	}
	writeJSON(w, http.StatusOK, items)
}
