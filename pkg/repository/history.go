package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"spv_captable_back/models"
)

const insertHistoryRecord = `
	INSERT INTO transfer_history (
		transfer_id, action, actor_id, ip, user_agent, notes,
		requester_ownership_before, requester_ownership_after,
		recipient_ownership_before, recipient_ownership_after,
		created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	RETURNING id`

// insertHistory runs against either the pool or an open transaction so that
// transition writes can bundle the audit row with the transfer row.
func insertHistory(q sqlx.Ext, rec *models.TransferHistoryRecord) error {
	var id int64
	err := q.QueryRowx(insertHistoryRecord,
		rec.TransferID, rec.Action, rec.ActorID,
		rec.IP, rec.UserAgent, rec.Notes,
		rec.RequesterOwnershipBefore, rec.RequesterOwnershipAfter,
		rec.RecipientOwnershipBefore, rec.RecipientOwnershipAfter,
		rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return errors.Wrap(err, "record history")
	}
	rec.ID = id
	return nil
}

type HistoryPostgres struct {
	db *sqlx.DB
}

func NewHistoryPostgres(db *sqlx.DB) *HistoryPostgres {
	return &HistoryPostgres{db: db}
}

func (r *HistoryPostgres) Record(rec *models.TransferHistoryRecord) (int64, error) {
	if err := insertHistory(r.db, rec); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (r *HistoryPostgres) ListByTransfer(transferID int64) ([]models.TransferHistoryRecord, error) {
	var records []models.TransferHistoryRecord
	err := r.db.Select(&records, `
		SELECT * FROM transfer_history
		WHERE transfer_id = $1
		ORDER BY id ASC`, transferID)
	if err != nil {
		return nil, errors.Wrap(err, "list history")
	}
	return records, nil
}
