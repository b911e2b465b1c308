// Package models defines the core domain models for Divvy.
//
// # Models
//
//   - User: A person tracked by the ledger; one user per session is the
//     "current user", the viewpoint for every balance computation
//   - Group: A fixed set of users that share expenses
//   - Expense: A paid amount split across participants, each with a share
//   - Settlement: An out-of-band payment between two users, pending until
//     the recipient confirms it
//
// # Design Principles
//
// 1. **Plain data**: Models carry no behavior beyond small constructors;
// validation and state transitions live in the ledger package
// 2. **Avoid circular references**: Relationships use ID strings, never pointers
// 3. **Immutable history**: Expenses and groups are never edited after creation;
// only a settlement's status moves, exactly once, from pending to confirmed
// 4. **Stored shares are ground truth**: An expense's participant shares are
// fixed at creation (equal splits bake equal shares in) and the balance engine
// always reads them back rather than re-deriving per-head amounts
package models
