package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"spv_captable_back/models"
)

type DocumentPostgres struct {
	db *sqlx.DB
}

func NewDocumentPostgres(db *sqlx.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

// insertDocument supersedes the previous latest document of the same type and
// inserts the new row with the next version number. It runs against either
// the pool or an open transaction so that transition writes can bundle the
// document with the transfer row.
func insertDocument(q sqlx.Ext, doc *models.TransferAgreementDocument) error {
	var version int
	err := q.QueryRowx(`
		SELECT COALESCE(MAX(version), 0) FROM transfer_documents
		WHERE transfer_id = $1 AND doc_type = $2`,
		doc.TransferID, doc.DocType).Scan(&version)
	if err != nil {
		return errors.Wrap(err, "next document version")
	}

	_, err = q.Exec(`
		UPDATE transfer_documents SET is_latest = FALSE
		WHERE transfer_id = $1 AND doc_type = $2 AND is_latest`,
		doc.TransferID, doc.DocType)
	if err != nil {
		return errors.Wrap(err, "supersede previous document")
	}

	doc.Version = version + 1
	doc.IsLatest = true

	var id int64
	err = q.QueryRowx(`
		INSERT INTO transfer_documents (
			transfer_id, doc_type, version, is_latest, handle, content_type,
			requester_signed, requester_signed_at, requester_sign_ip, requester_sign_data,
			recipient_signed, recipient_signed_at, recipient_sign_ip, recipient_sign_data,
			visible_to_requester, visible_to_recipient, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id`,
		doc.TransferID, doc.DocType, doc.Version, doc.IsLatest, doc.Handle, doc.ContentType,
		doc.RequesterSigned, doc.RequesterSignedAt, doc.RequesterSignIP, doc.RequesterSignData,
		doc.RecipientSigned, doc.RecipientSignedAt, doc.RecipientSignIP, doc.RecipientSignData,
		doc.VisibleToRequester, doc.VisibleToRecipient, doc.CreatedAt,
	).Scan(&id)
	if err != nil {
		return errors.Wrap(err, "insert document")
	}
	doc.ID = id
	return nil
}

func (r *DocumentPostgres) Create(doc *models.TransferAgreementDocument) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, errors.Wrap(err, "begin document transaction")
	}
	defer tx.Rollback()

	if err := insertDocument(tx, doc); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit document")
	}
	return doc.ID, nil
}

func (r *DocumentPostgres) LatestByType(transferID int64, docType models.DocumentType) (*models.TransferAgreementDocument, error) {
	var doc models.TransferAgreementDocument
	err := r.db.Get(&doc, `
		SELECT * FROM transfer_documents
		WHERE transfer_id = $1 AND doc_type = $2 AND is_latest`,
		transferID, docType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select latest document")
	}
	return &doc, nil
}

func (r *DocumentPostgres) ListByTransfer(transferID int64) ([]models.TransferAgreementDocument, error) {
	var docs []models.TransferAgreementDocument
	err := r.db.Select(&docs, `
		SELECT * FROM transfer_documents
		WHERE transfer_id = $1
		ORDER BY doc_type, version`, transferID)
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	return docs, nil
}

func (r *DocumentPostgres) Supersede(transferID int64, docType models.DocumentType) error {
	_, err := r.db.Exec(`
		UPDATE transfer_documents SET is_latest = FALSE
		WHERE transfer_id = $1 AND doc_type = $2 AND is_latest`,
		transferID, docType)
	return errors.Wrap(err, "supersede document")
}

// SupersedeAll hides every document of the transfer, keeping the rows for
// audit. Used on resubmission, which invalidates what the parties signed.
func (r *DocumentPostgres) SupersedeAll(transferID int64) error {
	_, err := r.db.Exec(`
		UPDATE transfer_documents SET is_latest = FALSE
		WHERE transfer_id = $1 AND is_latest`, transferID)
	return errors.Wrap(err, "supersede documents")
}
