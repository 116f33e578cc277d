package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"spv_captable_back/models"
)

type TransferPostgres struct {
	db *sqlx.DB
}

func NewTransferPostgres(db *sqlx.DB) *TransferPostgres {
	return &TransferPostgres{db: db}
}

// Create inserts the transfer row and its creation audit row together.
func (r *TransferPostgres) Create(t *models.Transfer, history *models.TransferHistoryRecord) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin create transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transfers (
			public_id, requester_id, recipient_id, vehicle_id,
			percentage, shares, amount, fee, net_amount, status,
			requester_ownership_before, recipient_ownership_before,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
		RETURNING id`

	var id int64
	err = tx.QueryRow(query,
		t.PublicID, t.RequesterID, t.RecipientID, t.VehicleID,
		t.Percentage, t.Shares, t.Amount, t.Fee, t.NetAmount, t.Status,
		t.RequesterOwnershipBefore, t.RecipientOwnershipBefore,
		t.CreatedAt,
	).Scan(&id)
	if err != nil {
		return errors.Wrap(err, "insert transfer")
	}
	t.ID = id

	history.TransferID = id
	if err := insertHistory(tx, history); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit create")
}

func (r *TransferPostgres) GetByPublicID(publicID string) (models.Transfer, error) {
	var t models.Transfer
	err := r.db.Get(&t, `SELECT * FROM transfers WHERE public_id = $1`, publicID)
	if err == sql.ErrNoRows {
		return t, err
	}
	if err != nil {
		return t, errors.Wrap(err, "select transfer")
	}
	return t, nil
}

// updateTransfer writes every mutable field of the transfer row.
func updateTransfer(q sqlx.Ext, t *models.Transfer) error {
	query := `
		UPDATE transfers SET
			percentage = $1, shares = $2, amount = $3, fee = $4, net_amount = $5,
			status = $6,
			requester_confirmed = $7, requester_confirmed_at = $8, requester_ip = $9,
			requester_signature = $10, requester_signature_kind = $11,
			requester_ack_terms = $12, requester_ack_risk = $13, requester_ack_irrevocable = $14,
			recipient_confirmed = $15, recipient_confirmed_at = $16, recipient_ip = $17,
			recipient_signature = $18, recipient_signature_kind = $19,
			recipient_ack_terms = $20, recipient_ack_risk = $21, recipient_ack_irrevocable = $22,
			approver_id = $23, approved_at = $24,
			compliance_checked = $25, kyc_checked = $26, documents_reviewed = $27, approval_notes = $28,
			rejection_reason = $29, rejection_notes = $30, rejected_by = $31, rejected_at = $32,
			completed_at = $33, updated_at = $34
		WHERE id = $35`

	_, err := q.Exec(query,
		t.Percentage, t.Shares, t.Amount, t.Fee, t.NetAmount,
		t.Status,
		t.RequesterConfirmed, t.RequesterConfirmedAt, t.RequesterIP,
		t.RequesterSignature, t.RequesterSignatureKind,
		t.RequesterAckTerms, t.RequesterAckRisk, t.RequesterAckIrrevocable,
		t.RecipientConfirmed, t.RecipientConfirmedAt, t.RecipientIP,
		t.RecipientSignature, t.RecipientSignatureKind,
		t.RecipientAckTerms, t.RecipientAckRisk, t.RecipientAckIrrevocable,
		t.ApproverID, t.ApprovedAt,
		t.ComplianceChecked, t.KYCChecked, t.DocumentsReviewed, t.ApprovalNotes,
		t.RejectionReason, t.RejectionNotes, t.RejectedBy, t.RejectedAt,
		t.CompletedAt, t.UpdatedAt,
		t.ID,
	)
	return errors.Wrap(err, "update transfer")
}

// ApplyTransition writes the transfer row, the audit row and any bundled
// document rows in one transaction. Append-only collaborators keep their own
// repositories for reads; every transition write lands through here.
func (r *TransferPostgres) ApplyTransition(t *models.Transfer, write TransitionWrite) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin transition transaction")
	}
	defer tx.Rollback()

	if err := updateTransfer(tx, t); err != nil {
		return err
	}
	if write.SupersedeDocuments {
		_, err := tx.Exec(`
			UPDATE transfer_documents SET is_latest = FALSE
			WHERE transfer_id = $1 AND is_latest`, t.ID)
		if err != nil {
			return errors.Wrap(err, "supersede documents in transition")
		}
	}
	if write.Document != nil {
		if err := insertDocument(tx, write.Document); err != nil {
			return err
		}
	}
	if err := insertHistory(tx, write.History); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transition")
}

func (r *TransferPostgres) ListByInvestor(investorID int64) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := r.db.Select(&transfers, `
		SELECT * FROM transfers
		WHERE requester_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC`, investorID)
	if err != nil {
		return nil, errors.Wrap(err, "list transfers")
	}
	return transfers, nil
}
