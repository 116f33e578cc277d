package service

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"spv_captable_back/models"
	"spv_captable_back/pkg/cache"
	"spv_captable_back/pkg/repository"
)

type CapTableService struct {
	repos  *repository.Repository
	ledger *ledgerEngine
}

func NewCapTableService(repos *repository.Repository, ledger *ledgerEngine) *CapTableService {
	return &CapTableService{
		repos:  repos,
		ledger: ledger,
	}
}

// GetCapTable returns the current ownership breakdown of a vehicle, derived
// from the latest ledger entry per investor.
func (s *CapTableService) GetCapTable(vehicleID int64) ([]models.CapTableRow, error) {
	if rows, ok := cache.GetCapTable(vehicleID); ok {
		return rows, nil
	}

	if _, err := s.repos.Directory.GetVehicle(vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("vehicle %d not found", vehicleID)
		}
		return nil, err
	}

	rows, err := s.repos.Ledger.CapTable(vehicleID)
	if err != nil {
		return nil, err
	}
	cache.SetCapTable(vehicleID, rows)
	return rows, nil
}

// GetOwnershipChain returns the full ledger history for an investor in a
// vehicle, oldest entry first.
func (s *CapTableService) GetOwnershipChain(investorID, vehicleID int64) ([]models.OwnershipLedgerEntry, error) {
	if _, err := s.repos.Directory.GetInvestor(investorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("investor %d not found", investorID)
		}
		return nil, err
	}
	return s.repos.Ledger.Chain(investorID, vehicleID)
}

// RecordInvestment appends the initial investment entry for an investor. It
// goes through the same capacity gate as transfer completions.
func (s *CapTableService) RecordInvestment(meta RequestMeta, vehicleID int64, input models.RecordInvestmentInput) (models.OwnershipLedgerEntry, error) {
	percentage, err := parseAmount("percentage", input.Percentage, true)
	if err != nil {
		return models.OwnershipLedgerEntry{}, err
	}
	if percentage.IsZero() {
		return models.OwnershipLedgerEntry{}, models.NewValidationError("percentage must be greater than zero")
	}
	amount, err := parseAmount("amount", input.Amount, true)
	if err != nil {
		return models.OwnershipLedgerEntry{}, err
	}

	if _, err := s.repos.Directory.GetInvestor(input.InvestorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OwnershipLedgerEntry{}, models.NewValidationError("investor %d does not exist", input.InvestorID)
		}
		return models.OwnershipLedgerEntry{}, err
	}
	if _, err := s.repos.Directory.GetVehicle(vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OwnershipLedgerEntry{}, models.NewValidationError("vehicle %d does not exist", vehicleID)
		}
		return models.OwnershipLedgerEntry{}, err
	}

	entry, err := s.ledger.appendEntry(input.InvestorID, vehicleID, models.EntryInvestment, percentage, amount, meta.ActorID)
	if err != nil {
		return models.OwnershipLedgerEntry{}, err
	}

	cache.InvalidateCapTable(vehicleID)
	logrus.Infof("investment recorded: investor %d now holds %s%% of vehicle %d",
		input.InvestorID, entry.OwnershipAfter.String(), vehicleID)
	return entry, nil
}

// RecordAdjustment appends a correction entry with signed deltas. The entries
// being corrected stay in the chain; the adjustment is a new row on top, still
// subject to the capacity gate.
func (s *CapTableService) RecordAdjustment(meta RequestMeta, vehicleID int64, input models.RecordAdjustmentInput) (models.OwnershipLedgerEntry, error) {
	percentageDelta, err := parseDelta("percentage_delta", input.PercentageDelta)
	if err != nil {
		return models.OwnershipLedgerEntry{}, err
	}
	amountDelta, err := parseDelta("amount_delta", input.AmountDelta)
	if err != nil {
		return models.OwnershipLedgerEntry{}, err
	}
	if percentageDelta.IsZero() && amountDelta.IsZero() {
		return models.OwnershipLedgerEntry{}, models.NewValidationError("adjustment must change percentage or amount")
	}

	if _, err := s.repos.Directory.GetInvestor(input.InvestorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OwnershipLedgerEntry{}, models.NewValidationError("investor %d does not exist", input.InvestorID)
		}
		return models.OwnershipLedgerEntry{}, err
	}
	if _, err := s.repos.Directory.GetVehicle(vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OwnershipLedgerEntry{}, models.NewValidationError("vehicle %d does not exist", vehicleID)
		}
		return models.OwnershipLedgerEntry{}, err
	}

	entry, err := s.ledger.appendEntry(input.InvestorID, vehicleID, models.EntryAdjustment, percentageDelta, amountDelta, meta.ActorID)
	if err != nil {
		return models.OwnershipLedgerEntry{}, err
	}

	cache.InvalidateCapTable(vehicleID)
	logrus.Infof("adjustment recorded: investor %d now holds %s%% of vehicle %d",
		input.InvestorID, entry.OwnershipAfter.String(), vehicleID)
	return entry, nil
}
