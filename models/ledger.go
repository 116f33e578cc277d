package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryType string

const (
	EntryInvestment  LedgerEntryType = "investment"
	EntryTransferOut LedgerEntryType = "transfer_out"
	EntryTransferIn  LedgerEntryType = "transfer_in"
	EntryAdjustment  LedgerEntryType = "adjustment"
)

// OwnershipLedgerEntry is append-only: rows are never updated or deleted,
// corrections are made by appending an adjustment entry.
type OwnershipLedgerEntry struct {
	ID              int64           `db:"id" json:"id"`
	InvestorID      int64           `db:"investor_id" json:"investor_id"`
	VehicleID       int64           `db:"vehicle_id" json:"vehicle_id"`
	EntryType       LedgerEntryType `db:"entry_type" json:"entry_type"`
	OwnershipBefore decimal.Decimal `db:"ownership_before" json:"ownership_before"`
	OwnershipAfter  decimal.Decimal `db:"ownership_after" json:"ownership_after"`
	AmountBefore    decimal.Decimal `db:"amount_before" json:"amount_before"`
	AmountAfter     decimal.Decimal `db:"amount_after" json:"amount_after"`
	TransferID      *int64          `db:"transfer_id" json:"transfer_id,omitempty"`
	CreatedBy       int64           `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// CapTableRow is the latest ledger position of one investor in a vehicle.
type CapTableRow struct {
	InvestorID     int64           `db:"investor_id" json:"investor_id"`
	InvestorName   string          `db:"investor_name" json:"investor_name"`
	OwnershipAfter decimal.Decimal `db:"ownership_after" json:"ownership"`
	AmountAfter    decimal.Decimal `db:"amount_after" json:"amount"`
}

type RecordInvestmentInput struct {
	InvestorID int64  `json:"investor_id" binding:"required"`
	Percentage string `json:"percentage" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
}

// RecordAdjustmentInput corrects a position by appending a signed delta. The
// original entries stay in the chain untouched.
type RecordAdjustmentInput struct {
	InvestorID      int64  `json:"investor_id" binding:"required"`
	PercentageDelta string `json:"percentage_delta" binding:"required"`
	AmountDelta     string `json:"amount_delta" binding:"required"`
}
