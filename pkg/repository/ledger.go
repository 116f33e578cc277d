package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"spv_captable_back/models"
)

type LedgerPostgres struct {
	db *sqlx.DB
}

func NewLedgerPostgres(db *sqlx.DB) *LedgerPostgres {
	return &LedgerPostgres{db: db}
}

func (r *LedgerPostgres) LatestEntry(investorID, vehicleID int64) (*models.OwnershipLedgerEntry, error) {
	var entry models.OwnershipLedgerEntry
	err := r.db.Get(&entry, `
		SELECT * FROM ownership_ledger
		WHERE investor_id = $1 AND vehicle_id = $2
		ORDER BY id DESC LIMIT 1`, investorID, vehicleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select latest ledger entry")
	}
	return &entry, nil
}

// LatestEntries returns the most recent entry per investor for the vehicle.
func (r *LedgerPostgres) LatestEntries(vehicleID int64) ([]models.OwnershipLedgerEntry, error) {
	var entries []models.OwnershipLedgerEntry
	err := r.db.Select(&entries, `
		SELECT DISTINCT ON (investor_id) *
		FROM ownership_ledger
		WHERE vehicle_id = $1
		ORDER BY investor_id, id DESC`, vehicleID)
	if err != nil {
		return nil, errors.Wrap(err, "select latest ledger entries")
	}
	return entries, nil
}

func (r *LedgerPostgres) Chain(investorID, vehicleID int64) ([]models.OwnershipLedgerEntry, error) {
	var entries []models.OwnershipLedgerEntry
	err := r.db.Select(&entries, `
		SELECT * FROM ownership_ledger
		WHERE investor_id = $1 AND vehicle_id = $2
		ORDER BY id ASC`, investorID, vehicleID)
	if err != nil {
		return nil, errors.Wrap(err, "select ledger chain")
	}
	return entries, nil
}

func (r *LedgerPostgres) CapTable(vehicleID int64) ([]models.CapTableRow, error) {
	var rows []models.CapTableRow
	err := r.db.Select(&rows, `
		SELECT l.investor_id, i.name AS investor_name, l.ownership_after, l.amount_after
		FROM (
			SELECT DISTINCT ON (investor_id) investor_id, ownership_after, amount_after
			FROM ownership_ledger
			WHERE vehicle_id = $1
			ORDER BY investor_id, id DESC
		) l
		JOIN investors i ON i.id = l.investor_id
		ORDER BY l.ownership_after DESC, l.investor_id ASC`, vehicleID)
	if err != nil {
		return nil, errors.Wrap(err, "select cap table")
	}
	return rows, nil
}

const insertLedgerEntry = `
	INSERT INTO ownership_ledger (
		investor_id, vehicle_id, entry_type,
		ownership_before, ownership_after, amount_before, amount_after,
		transfer_id, created_by, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	RETURNING id`

func (r *LedgerPostgres) Append(entry *models.OwnershipLedgerEntry) (int64, error) {
	var id int64
	err := r.db.QueryRow(insertLedgerEntry,
		entry.InvestorID, entry.VehicleID, entry.EntryType,
		entry.OwnershipBefore, entry.OwnershipAfter, entry.AmountBefore, entry.AmountAfter,
		entry.TransferID, entry.CreatedBy, entry.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "append ledger entry")
	}
	entry.ID = id
	return id, nil
}

// CommitTransfer writes the debit and credit entries, the completion history
// row, the final agreement document and the terminal status flip in a single
// transaction. There is no partial outcome: a failure anywhere rolls
// everything back. The flip is conditional on the row still being approved,
// so a transfer can never be applied to the ledger twice.
func (r *LedgerPostgres) CommitTransfer(t *models.Transfer, debit, credit *models.OwnershipLedgerEntry, history *models.TransferHistoryRecord, doc *models.TransferAgreementDocument) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin commit transaction")
	}
	defer tx.Rollback()

	for _, entry := range []*models.OwnershipLedgerEntry{debit, credit} {
		var id int64
		err := tx.QueryRow(insertLedgerEntry,
			entry.InvestorID, entry.VehicleID, entry.EntryType,
			entry.OwnershipBefore, entry.OwnershipAfter, entry.AmountBefore, entry.AmountAfter,
			entry.TransferID, entry.CreatedBy, entry.CreatedAt,
		).Scan(&id)
		if err != nil {
			return errors.Wrap(err, "append ledger entry in commit")
		}
		entry.ID = id
	}

	if err := insertHistory(tx, history); err != nil {
		return err
	}
	if doc != nil {
		if err := insertDocument(tx, doc); err != nil {
			return err
		}
	}

	res, err := tx.Exec(`
		UPDATE transfers SET status = $1, completed_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4`,
		t.Status, t.CompletedAt, t.ID, models.StatusApproved)
	if err != nil {
		return errors.Wrap(err, "flip transfer status in commit")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "flip transfer status in commit")
	}
	if affected == 0 {
		return models.NewStateConflictError("transfer %s is no longer approved", t.PublicID)
	}

	return errors.Wrap(tx.Commit(), "commit transfer")
}
