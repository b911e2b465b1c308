package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
)

type createExpenseRequest struct {
	GroupID     string `json:"groupId,omitempty"`
	Description string `json:"description"`
	Amount      float64 `json:"amount"`
	PayerID     string  `json:"payerId"`
	Category    string  `json:"category"`

	// SplitMethod is "equal" or "unequal". Equal splits name the users in
	// ParticipantIDs and the server bakes equal shares in; unequal splits
	// carry explicit per-user shares in Participants.
	SplitMethod    string            `json:"splitMethod"`
	ParticipantIDs []string          `json:"participantIds,omitempty"`
	Participants   []participantJSON `json:"participants,omitempty"`
}

func (s *Service) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var participants []models.Participant
	switch req.SplitMethod {
	case "equal":
		participants = models.SplitEqually(req.Amount, req.ParticipantIDs)
	case "unequal":
		participants = make([]models.Participant, len(req.Participants))
		for i, p := range req.Participants {
			participants[i] = models.Participant{UserID: p.UserID, Share: p.Share}
		}
	default:
		writeError(w, &ledger.ValidationError{Field: "splitMethod", Reason: "must be \"equal\" or \"unequal\""})
		return
	}

	expense, err := s.ledger.AddExpense(models.Expense{
		GroupID:      req.GroupID,
		Description:  req.Description,
		Amount:       req.Amount,
		PayerID:      req.PayerID,
		Participants: participants,
		Category:     models.Category(req.Category),
	})
	if err != nil {
		slog.Error("CreateExpense failed", "error", err)
		writeError(w, err)
		return
	}
	s.mirror(r.Context(), "expense", func(ctx context.Context) error { return s.store.SaveExpense(ctx, &expense) })

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"participants_count", len(expense.Participants),
		"group_id", expense.GroupID,
	)
	writeJSON(w, http.StatusCreated, toExpenseJSON(expense))
}

func (s *Service) listExpenses(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.Snapshot()
	expenses := make([]expenseJSON, len(snap.Expenses))
	for i, e := range snap.Expenses {
		expenses[i] = toExpenseJSON(e)
	}
	writeJSON(w, http.StatusOK, expenses)
}

type createUserRequest struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

func (s *Service) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.ledger.AddUser(models.User{DisplayName: req.DisplayName, AvatarURL: req.AvatarURL})
	if err != nil {
		slog.Error("CreateUser failed", "error", err)
		writeError(w, err)
		return
	}
	s.mirror(r.Context(), "user", func(ctx context.Context) error { return s.store.SaveUser(ctx, &user) })

	slog.Info("User created", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, toUserJSON(user))
}

func (s *Service) listUsers(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.Snapshot()
	users := make([]userJSON, len(snap.Users))
	for i, u := range snap.Users {
		users[i] = toUserJSON(u)
	}
	writeJSON(w, http.StatusOK, users)
}
