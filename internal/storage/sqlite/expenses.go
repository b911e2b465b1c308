package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/divvyup/divvy/internal/models"
)

// SaveExpense persists a new expense and its participant shares.
func (s *SQLiteStore) SaveExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID interface{}
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, payer_id, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, groupID, expense.Description, expense.Amount,
		expense.PayerID, string(expense.Category), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, p := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, share, position) VALUES (?, ?, ?, ?)",
			expense.ID, p.UserID, p.Share, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount, payer_id, category, created_at
		 FROM expenses ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var groupID sql.NullString
		var category string
		if err := rows.Scan(&e.ID, &groupID, &e.Description, &e.Amount, &e.PayerID, &category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if groupID.Valid {
			e.GroupID = groupID.String
		}
		e.Category = models.Category(category)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		partRows, err := s.db.QueryContext(ctx,
			"SELECT user_id, share FROM expense_participants WHERE expense_id = ? ORDER BY position",
			expenses[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load expense participants: %w", err)
		}
		for partRows.Next() {
			var p models.Participant
			if err := partRows.Scan(&p.UserID, &p.Share); err != nil {
				partRows.Close()
				return nil, fmt.Errorf("failed to scan expense participant: %w", err)
			}
			expenses[i].Participants = append(expenses[i].Participants, p)
		}
		if err := partRows.Err(); err != nil {
			partRows.Close()
			return nil, fmt.Errorf("failed to iterate expense participants: %w", err)
		}
		partRows.Close()
	}
	return expenses, nil
}
