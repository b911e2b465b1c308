// Package storage provides abstractions for persisting ledger history.
package storage

import (
	"context"

	"github.com/divvyup/divvy/internal/models"
)

// Contents is everything a store holds, ready to replay into a ledger.
// Expenses and settlements come back newest first, matching the ledger's
// display convention.
type Contents struct {
	Users       []models.User
	Groups      []models.Group
	Expenses    []models.Expense
	Settlements []models.Settlement
}

// Store mirrors ledger history onto a durable backend. The in-memory ledger
// stays authoritative; the server writes each accepted mutation through and
// replays Load at boot. This abstraction allows swapping backends (SQLite,
// PostgreSQL, etc.) without touching the service layer.
type Store interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user *models.User) error

	// SaveGroup persists a new group with its member list.
	SaveGroup(ctx context.Context, group *models.Group) error

	// SaveExpense persists a new expense with its participant shares.
	SaveExpense(ctx context.Context, expense *models.Expense) error

	// SaveSettlement persists a new settlement.
	SaveSettlement(ctx context.Context, settlement *models.Settlement) error

	// MarkSettlementConfirmed flips a stored settlement to confirmed.
	// Returns an error if the settlement does not exist.
	MarkSettlementConfirmed(ctx context.Context, settlementID string) error

	// Load reads back everything previously saved.
	Load(ctx context.Context) (*Contents, error)

	// Close releases any resources held by the store.
	Close() error
}
