package service

import (
	"net/http"

	"github.com/divvyup/divvy/internal/balance"
	"github.com/divvyup/divvy/internal/ledger"
)

type balanceEntryJSON struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

type balancesResponse struct {
	NetBalance float64            `json:"netBalance"`
	PerUser    map[string]float64 `json:"perUser"`
	YouAreOwed []balanceEntryJSON `json:"youAreOwed"`
	YouOwe     []balanceEntryJSON `json:"youOwe"`
}

func (s *Service) globalBalances(w http.ResponseWriter, r *http.Request) {
	summary := balance.Balances(s.ledger.Snapshot())

	resp := balancesResponse{
		NetBalance: summary.Net,
		PerUser:    summary.PerUser,
		YouAreOwed: make([]balanceEntryJSON, len(summary.YouAreOwed)),
		YouOwe:     make([]balanceEntryJSON, len(summary.YouOwe)),
	}
	for i, e := range summary.YouAreOwed {
		resp.YouAreOwed[i] = balanceEntryJSON{UserID: e.UserID, Amount: e.Amount}
	}
	for i, e := range summary.YouOwe {
		resp.YouOwe[i] = balanceEntryJSON{UserID: e.UserID, Amount: e.Amount}
	}
	writeJSON(w, http.StatusOK, resp)
}

type friendSummaryJSON struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Balance     float64 `json:"balance"`
	Settled     bool    `json:"settled"`
}

func (s *Service) listFriends(w http.ResponseWriter, r *http.Request) {
	friends := balance.FriendSummaries(s.ledger.Snapshot())
	resp := make([]friendSummaryJSON, len(friends))
	for i, f := range friends {
		resp[i] = friendSummaryJSON{
			UserID:      f.UserID,
			DisplayName: f.DisplayName,
			Balance:     f.Balance,
			Settled:     f.Settled,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type friendBalanceResponse struct {
	UserID  string  `json:"userId"`
	Balance float64 `json:"balance"`
	Settled bool    `json:"settled"`
}

func (s *Service) friendBalance(w http.ResponseWriter, r *http.Request) {
	friendID := r.PathValue("id")
	snap := s.ledger.Snapshot()
	if _, ok := snap.User(friendID); !ok {
		writeError(w, &ledger.NotFoundError{Kind: "user", ID: friendID})
		return
	}

	bal := balance.FriendBalance(snap, friendID)
	writeJSON(w, http.StatusOK, friendBalanceResponse{
		UserID:  friendID,
		Balance: bal,
		Settled: balance.Settled(bal),
	})
}
