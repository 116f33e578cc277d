package repository

import (
	"github.com/jmoiron/sqlx"

	"spv_captable_back/models"
)

// TransitionWrite bundles the rows that must land together with a transfer
// row mutation: the audit record, an optional agreement document, and the
// optional superseding of every prior document.
type TransitionWrite struct {
	History            *models.TransferHistoryRecord
	Document           *models.TransferAgreementDocument
	SupersedeDocuments bool
}

type Transfer interface {
	// Create inserts the transfer and its creation audit row in one
	// transaction.
	Create(t *models.Transfer, history *models.TransferHistoryRecord) error
	GetByPublicID(publicID string) (models.Transfer, error)
	// ApplyTransition updates the transfer row and writes the bundled rows
	// in one transaction, or none of them.
	ApplyTransition(t *models.Transfer, write TransitionWrite) error
	ListByInvestor(investorID int64) ([]models.Transfer, error)
}

type Ledger interface {
	LatestEntry(investorID, vehicleID int64) (*models.OwnershipLedgerEntry, error)
	LatestEntries(vehicleID int64) ([]models.OwnershipLedgerEntry, error)
	Chain(investorID, vehicleID int64) ([]models.OwnershipLedgerEntry, error)
	CapTable(vehicleID int64) ([]models.CapTableRow, error)
	Append(entry *models.OwnershipLedgerEntry) (int64, error)
	// CommitTransfer is the single commit point of a completed transfer:
	// both ledger entries, the history row, the final agreement document and
	// the status flip are written in one transaction, or none of them are.
	// The flip only lands if the row is still approved; a concurrent
	// completion fails the whole transaction with a state conflict.
	CommitTransfer(t *models.Transfer, debit, credit *models.OwnershipLedgerEntry, history *models.TransferHistoryRecord, doc *models.TransferAgreementDocument) error
}

type History interface {
	Record(rec *models.TransferHistoryRecord) (int64, error)
	ListByTransfer(transferID int64) ([]models.TransferHistoryRecord, error)
}

type Document interface {
	Create(doc *models.TransferAgreementDocument) (int64, error)
	LatestByType(transferID int64, docType models.DocumentType) (*models.TransferAgreementDocument, error)
	ListByTransfer(transferID int64) ([]models.TransferAgreementDocument, error)
	Supersede(transferID int64, docType models.DocumentType) error
	SupersedeAll(transferID int64) error
}

type Directory interface {
	GetInvestor(id int64) (models.Investor, error)
	GetVehicle(id int64) (models.Vehicle, error)
}

type Repository struct {
	Transfer
	Ledger
	History
	Document
	Directory
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Transfer:  NewTransferPostgres(db),
		Ledger:    NewLedgerPostgres(db),
		History:   NewHistoryPostgres(db),
		Document:  NewDocumentPostgres(db),
		Directory: NewDirectoryPostgres(db),
	}
}
