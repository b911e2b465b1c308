package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/divvyup/divvy/internal/config"
	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

// buildLedger rebuilds the in-memory ledger from stored history, or creates
// a fresh one when the database is empty. The first stored user is the
// current user; that invariant is established here and preserved by saving
// the current user before anyone else.
func buildLedger(ctx context.Context, cfg *config.Config, store storage.Store) (*ledger.Ledger, error) {
	contents, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger history: %w", err)
	}

	if len(contents.Users) == 0 {
		l, err := ledger.New(models.User{DisplayName: cfg.CurrentUserName})
		if err != nil {
			return nil, err
		}
		snap := l.Snapshot()
		if err := store.SaveUser(ctx, &snap.Users[0]); err != nil {
			return nil, fmt.Errorf("failed to save current user: %w", err)
		}
		slog.Info("Created fresh ledger", "current_user", cfg.CurrentUserName)

		if cfg.DemoSeed {
			if err := seedDemoData(ctx, l, store); err != nil {
				return nil, fmt.Errorf("failed to seed demo data: %w", err)
			}
			slog.Info("Seeded demo data")
		}
		return l, nil
	}

	// Replay history through the mutation protocol so every stored entity
	// passes the same validation as a live request would.
	l, err := ledger.New(contents.Users[0])
	if err != nil {
		return nil, err
	}
	for _, u := range contents.Users[1:] {
		if _, err := l.AddUser(u); err != nil {
			return nil, fmt.Errorf("failed to replay user %s: %w", u.ID, err)
		}
	}
	for _, g := range contents.Groups {
		if _, err := l.AddGroup(g); err != nil {
			return nil, fmt.Errorf("failed to replay group %s: %w", g.ID, err)
		}
	}
	// Stored newest first; replay oldest first so prepending recreates the
	// original order.
	for i := len(contents.Expenses) - 1; i >= 0; i-- {
		e := contents.Expenses[i]
		if _, err := l.AddExpense(e); err != nil {
			return nil, fmt.Errorf("failed to replay expense %s: %w", e.ID, err)
		}
	}
	for i := len(contents.Settlements) - 1; i >= 0; i-- {
		st := contents.Settlements[i]
		if _, err := l.RecordSettlement(st); err != nil {
			return nil, fmt.Errorf("failed to replay settlement %s: %w", st.ID, err)
		}
		if st.Status == models.SettlementConfirmed {
			if _, err := l.ConfirmSettlement(st.ID, st.ToUserID); err != nil {
				return nil, fmt.Errorf("failed to replay settlement confirmation %s: %w", st.ID, err)
			}
		}
	}

	slog.Info("Ledger rebuilt from storage",
		"users", len(contents.Users),
		"groups", len(contents.Groups),
		"expenses", len(contents.Expenses),
		"settlements", len(contents.Settlements),
	)
	return l, nil
}
