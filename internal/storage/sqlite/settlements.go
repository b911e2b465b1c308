package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/divvyup/divvy/internal/models"
)

// SaveSettlement persists a new settlement.
func (s *SQLiteStore) SaveSettlement(ctx context.Context, settlement *models.Settlement) error {
	var groupID interface{}
	if settlement.GroupID != "" {
		groupID = settlement.GroupID
	}
	var note interface{}
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, status, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, groupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount, string(settlement.Status), note, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// MarkSettlementConfirmed flips a stored settlement's status to confirmed.
func (s *SQLiteStore) MarkSettlementConfirmed(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ? WHERE id = ?",
		string(models.SettlementConfirmed), settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settlement not found: %s", settlementID)
	}
	return nil
}

func (s *SQLiteStore) loadSettlements(ctx context.Context) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, status, note, created_at
		 FROM settlements ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var st models.Settlement
		var groupID, note sql.NullString
		var status string
		if err := rows.Scan(&st.ID, &groupID, &st.FromUserID, &st.ToUserID, &st.Amount, &status, &note, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if groupID.Valid {
			st.GroupID = groupID.String
		}
		if note.Valid {
			st.Note = note.String
		}
		st.Status = models.SettlementStatus(status)
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
