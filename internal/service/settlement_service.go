package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
)

type recordSettlementRequest struct {
	GroupID    string  `json:"groupId,omitempty"`
	FromUserID string  `json:"fromUserId"`
	ToUserID   string  `json:"toUserId"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note,omitempty"`
}

func (s *Service) recordSettlement(w http.ResponseWriter, r *http.Request) {
	var req recordSettlementRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// A group settle-up still names both users. There is no routing that
	// picks a counterparty from a group; a request without one is rejected
	// rather than guessed at.
	if req.FromUserID == "" || req.ToUserID == "" {
		writeError(w, &ledger.ValidationError{
			Field:  "toUserId",
			Reason: "settlements are between two users; pick the counterparty explicitly",
		})
		return
	}

	settlement, err := s.ledger.RecordSettlement(models.Settlement{
		GroupID:    req.GroupID,
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Amount:     req.Amount,
		Note:       req.Note,
	})
	if err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		writeError(w, err)
		return
	}
	s.mirror(r.Context(), "settlement", func(ctx context.Context) error { return s.store.SaveSettlement(ctx, &settlement) })

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount", settlement.Amount,
	)
	writeJSON(w, http.StatusCreated, toSettlementJSON(settlement))
}

type confirmSettlementRequest struct {
	UserID string `json:"userId"`
}

func (s *Service) confirmSettlement(w http.ResponseWriter, r *http.Request) {
	var req confirmSettlementRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	settlement, err := s.ledger.ConfirmSettlement(id, req.UserID)
	if err != nil {
		slog.Error("ConfirmSettlement failed", "settlement_id", id, "error", err)
		writeError(w, err)
		return
	}
	s.mirror(r.Context(), "settlement", func(ctx context.Context) error {
		return s.store.MarkSettlementConfirmed(ctx, settlement.ID)
	})

	slog.Info("Settlement confirmed", "settlement_id", settlement.ID)
	writeJSON(w, http.StatusOK, toSettlementJSON(settlement))
}

func (s *Service) listSettlements(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.Snapshot()
	settlements := make([]settlementJSON, len(snap.Settlements))
	for i, st := range snap.Settlements {
		settlements[i] = toSettlementJSON(st)
	}
	writeJSON(w, http.StatusOK, settlements)
}
