package service

import (
	"spv_captable_back/models"
	"spv_captable_back/pkg/docs"
	"spv_captable_back/pkg/repository"
)

// RequestMeta identifies the acting investor and the request origin. The
// actor is always explicit; there is no ambient current-user context.
type RequestMeta struct {
	ActorID   int64
	IP        string
	UserAgent string
}

type Transfer interface {
	Create(meta RequestMeta, input models.CreateTransferInput) (models.Transfer, error)
	Get(publicID string) (models.Transfer, error)
	ConfirmAsRequester(meta RequestMeta, publicID string, input models.ConfirmTransferInput) (models.Transfer, error)
	ConfirmAsRecipient(meta RequestMeta, publicID string, input models.ConfirmTransferInput) (models.Transfer, error)
	DeclineAsRecipient(meta RequestMeta, publicID string, input models.DeclineTransferInput) (models.Transfer, error)
	Approve(meta RequestMeta, publicID string, input models.ApproveTransferInput) (models.Transfer, error)
	Reject(meta RequestMeta, publicID string, input models.RejectTransferInput) (models.Transfer, error)
	Cancel(meta RequestMeta, publicID string) (models.Transfer, error)
	Complete(meta RequestMeta, publicID string) (models.Transfer, error)
	Resubmit(meta RequestMeta, publicID string, input models.ResubmitTransferInput) (models.Transfer, error)
	Documents(publicID string) ([]models.TransferAgreementDocument, error)
	History(publicID string) ([]models.TransferHistoryRecord, error)
}

type CapTable interface {
	GetCapTable(vehicleID int64) ([]models.CapTableRow, error)
	GetOwnershipChain(investorID, vehicleID int64) ([]models.OwnershipLedgerEntry, error)
	RecordInvestment(meta RequestMeta, vehicleID int64, input models.RecordInvestmentInput) (models.OwnershipLedgerEntry, error)
	RecordAdjustment(meta RequestMeta, vehicleID int64, input models.RecordAdjustmentInput) (models.OwnershipLedgerEntry, error)
}

type Directory interface {
	GetInvestor(id int64) (models.Investor, error)
	GetVehicle(id int64) (models.Vehicle, error)
}

type Service struct {
	Transfer
	CapTable
	Directory
}

func NewService(repos *repository.Repository, coordinator docs.Coordinator) *Service {
	ledger := newLedgerEngine(repos.Ledger, repos.Transfer)
	return &Service{
		Transfer:  NewTransferService(repos, ledger, coordinator),
		CapTable:  NewCapTableService(repos, ledger),
		Directory: NewDirectoryService(repos.Directory),
	}
}
