// Package service exposes the ledger and balance engine over an HTTP JSON
// API. It is the presentation-facing surface: handlers decode payloads, call
// into the ledger, and render engine output. All balance math lives in the
// balance package; all validation lives in the ledger.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

// Service wires HTTP handlers to the ledger and its storage mirror.
type Service struct {
	ledger *ledger.Ledger
	store  storage.Store
}

// New creates a Service. store may be nil, in which case mutations live only
// in memory.
func New(l *ledger.Ledger, store storage.Store) *Service {
	return &Service{ledger: l, store: store}
}

// Register attaches all API routes to mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/users", s.listUsers)
	mux.HandleFunc("POST /api/v1/users", s.createUser)

	mux.HandleFunc("GET /api/v1/groups", s.listGroups)
	mux.HandleFunc("POST /api/v1/groups", s.createGroup)
	mux.HandleFunc("GET /api/v1/groups/{id}/balance", s.groupBalance)
	mux.HandleFunc("GET /api/v1/groups/{id}/members", s.groupMembers)
	mux.HandleFunc("GET /api/v1/groups/{id}/activity", s.groupActivity)

	mux.HandleFunc("GET /api/v1/expenses", s.listExpenses)
	mux.HandleFunc("POST /api/v1/expenses", s.createExpense)

	mux.HandleFunc("GET /api/v1/settlements", s.listSettlements)
	mux.HandleFunc("POST /api/v1/settlements", s.recordSettlement)
	mux.HandleFunc("POST /api/v1/settlements/{id}/confirm", s.confirmSettlement)

	mux.HandleFunc("GET /api/v1/balances", s.globalBalances)
	mux.HandleFunc("GET /api/v1/friends", s.listFriends)
	mux.HandleFunc("GET /api/v1/friends/{id}/balance", s.friendBalance)
}

// mirror writes an accepted mutation through to the store. The in-memory
// ledger is authoritative and the mirror is best effort: a write failure is
// logged, not surfaced, since durability is not a guarantee the API makes.
func (s *Service) mirror(ctx context.Context, what string, fn func(context.Context) error) {
	if s.store == nil {
		return
	}
	if err := fn(ctx); err != nil {
		slog.Warn("storage mirror write failed", "entity", what, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes: rejected input is
// 400, unknown IDs are 404, anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *ledger.ValidationError
		imbalancedErr *ledger.ImbalancedSplitError
		notFoundErr   *ledger.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &imbalancedErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ledger.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// Wire representations. Models stay tag-free; the service owns the mapping
// between domain structs and JSON, the same way handlers convert to and from
// transport types elsewhere.

type userJSON struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

func toUserJSON(u models.User) userJSON {
	return userJSON{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL, CreatedAt: u.CreatedAt}
}

type groupJSON struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
	CreatedAt int64    `json:"createdAt"`
}

func toGroupJSON(g models.Group) groupJSON {
	return groupJSON{ID: g.ID, Name: g.Name, MemberIDs: g.MemberIDs, CreatedAt: g.CreatedAt}
}

type participantJSON struct {
	UserID string  `json:"userId"`
	Share  float64 `json:"share"`
}

type expenseJSON struct {
	ID           string            `json:"id"`
	GroupID      string            `json:"groupId,omitempty"`
	Description  string            `json:"description"`
	Amount       float64           `json:"amount"`
	PayerID      string            `json:"payerId"`
	Participants []participantJSON `json:"participants"`
	Category     string            `json:"category"`
	CreatedAt    int64             `json:"createdAt"`
}

func toExpenseJSON(e models.Expense) expenseJSON {
	participants := make([]participantJSON, len(e.Participants))
	for i, p := range e.Participants {
		participants[i] = participantJSON{UserID: p.UserID, Share: p.Share}
	}
	return expenseJSON{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Description:  e.Description,
		Amount:       e.Amount,
		PayerID:      e.PayerID,
		Participants: participants,
		Category:     string(e.Category),
		CreatedAt:    e.CreatedAt,
	}
}

type settlementJSON struct {
	ID         string  `json:"id"`
	GroupID    string  `json:"groupId,omitempty"`
	FromUserID string  `json:"fromUserId"`
	ToUserID   string  `json:"toUserId"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  int64   `json:"createdAt"`
}

func toSettlementJSON(st models.Settlement) settlementJSON {
	return settlementJSON{
		ID:         st.ID,
		GroupID:    st.GroupID,
		FromUserID: st.FromUserID,
		ToUserID:   st.ToUserID,
		Amount:     st.Amount,
		Status:     string(st.Status),
		Note:       st.Note,
		CreatedAt:  st.CreatedAt,
	}
}
