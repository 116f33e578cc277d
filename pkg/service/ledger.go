package service

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"spv_captable_back/models"
	"spv_captable_back/pkg/repository"
)

var (
	fullOwnership = decimal.NewFromInt(100)
	// ownershipEpsilon absorbs 4dp rounding when summing positions; anything
	// past it is treated as oversell, never clamped.
	ownershipEpsilon = decimal.NewFromFloat(0.0001)
)

// ledgerEngine guards every ownership write. Writers for the same vehicle are
// serialized through a per-vehicle mutex so that two concurrently approved
// transfers cannot jointly oversell the vehicle.
type ledgerEngine struct {
	repo      repository.Ledger
	transfers repository.Transfer

	mu       sync.Mutex
	vehicles map[int64]*sync.Mutex
}

func newLedgerEngine(repo repository.Ledger, transfers repository.Transfer) *ledgerEngine {
	return &ledgerEngine{
		repo:      repo,
		transfers: transfers,
		vehicles:  make(map[int64]*sync.Mutex),
	}
}

func (e *ledgerEngine) lockVehicle(vehicleID int64) func() {
	e.mu.Lock()
	lock, ok := e.vehicles[vehicleID]
	if !ok {
		lock = &sync.Mutex{}
		e.vehicles[vehicleID] = lock
	}
	e.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// position returns the latest ownership and amount for the pair, zero if the
// investor has no ledger entries yet.
func (e *ledgerEngine) position(investorID, vehicleID int64) (decimal.Decimal, decimal.Decimal, error) {
	entry, err := e.repo.LatestEntry(investorID, vehicleID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if entry == nil {
		return decimal.Zero, decimal.Zero, nil
	}
	return entry.OwnershipAfter, entry.AmountAfter, nil
}

// checkCapacity verifies that, with the proposed after-values substituted in,
// the sum of the latest ownership per investor stays within 100%. proposed
// maps investor id to the ownership_after that is about to be written.
func (e *ledgerEngine) checkCapacity(vehicleID int64, proposed map[int64]decimal.Decimal) error {
	latest, err := e.repo.LatestEntries(vehicleID)
	if err != nil {
		return err
	}

	sum := decimal.Zero
	seen := make(map[int64]bool, len(latest))
	for _, entry := range latest {
		seen[entry.InvestorID] = true
		if after, ok := proposed[entry.InvestorID]; ok {
			sum = sum.Add(after)
			continue
		}
		sum = sum.Add(entry.OwnershipAfter)
	}
	for investorID, after := range proposed {
		if !seen[investorID] {
			sum = sum.Add(after)
		}
	}

	for investorID, after := range proposed {
		if after.LessThan(ownershipEpsilon.Neg()) {
			return models.NewLedgerInconsistencyError(
				"investor %d would hold %s%% of vehicle %d", investorID, after.String(), vehicleID)
		}
	}
	if sum.GreaterThan(fullOwnership.Add(ownershipEpsilon)) {
		return models.NewLedgerInconsistencyError(
			"vehicle %d ownership would total %s%%", vehicleID, sum.String())
	}
	return nil
}

// appendEntry writes a single investment or adjustment entry under the
// vehicle lock. Transfer completions go through commitTransfer instead.
func (e *ledgerEngine) appendEntry(investorID, vehicleID int64, entryType models.LedgerEntryType, percentageDelta, amountDelta decimal.Decimal, createdBy int64) (models.OwnershipLedgerEntry, error) {
	unlock := e.lockVehicle(vehicleID)
	defer unlock()

	ownBefore, amtBefore, err := e.position(investorID, vehicleID)
	if err != nil {
		return models.OwnershipLedgerEntry{}, err
	}

	entry := models.OwnershipLedgerEntry{
		InvestorID:      investorID,
		VehicleID:       vehicleID,
		EntryType:       entryType,
		OwnershipBefore: ownBefore,
		OwnershipAfter:  ownBefore.Add(percentageDelta),
		AmountBefore:    amtBefore,
		AmountAfter:     amtBefore.Add(amountDelta),
		CreatedBy:       createdBy,
		CreatedAt:       time.Now().UTC(),
	}

	err = e.checkCapacity(vehicleID, map[int64]decimal.Decimal{investorID: entry.OwnershipAfter})
	if err != nil {
		return models.OwnershipLedgerEntry{}, err
	}

	if _, err := e.repo.Append(&entry); err != nil {
		return models.OwnershipLedgerEntry{}, err
	}
	return entry, nil
}

// commitTransfer moves the transfer's stake from requester to recipient: two
// ledger entries plus the completion history row, the final agreement
// document and the status flip, all or nothing. Must be called with the
// transfer already in its terminal completed shape; on error the caller keeps
// the prior state.
func (e *ledgerEngine) commitTransfer(t *models.Transfer, doc *models.TransferAgreementDocument, meta RequestMeta) error {
	unlock := e.lockVehicle(t.VehicleID)
	defer unlock()

	// The stored status is rechecked under the lock: a concurrent completion
	// that won the lock first has already flipped the row.
	current, err := e.transfers.GetByPublicID(t.PublicID)
	if err != nil {
		return err
	}
	if current.Status != models.StatusApproved {
		return models.NewStateConflictError("transfer %s is %s, expected %s",
			t.PublicID, current.Status, models.StatusApproved)
	}

	reqOwn, reqAmt, err := e.position(t.RequesterID, t.VehicleID)
	if err != nil {
		return err
	}
	recOwn, recAmt, err := e.position(t.RecipientID, t.VehicleID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	debit := models.OwnershipLedgerEntry{
		InvestorID:      t.RequesterID,
		VehicleID:       t.VehicleID,
		EntryType:       models.EntryTransferOut,
		OwnershipBefore: reqOwn,
		OwnershipAfter:  reqOwn.Sub(t.Percentage),
		AmountBefore:    reqAmt,
		AmountAfter:     reqAmt.Sub(t.Amount),
		TransferID:      &t.ID,
		CreatedBy:       meta.ActorID,
		CreatedAt:       now,
	}
	credit := models.OwnershipLedgerEntry{
		InvestorID:      t.RecipientID,
		VehicleID:       t.VehicleID,
		EntryType:       models.EntryTransferIn,
		OwnershipBefore: recOwn,
		OwnershipAfter:  recOwn.Add(t.Percentage),
		AmountBefore:    recAmt,
		AmountAfter:     recAmt.Add(t.Amount),
		TransferID:      &t.ID,
		CreatedBy:       meta.ActorID,
		CreatedAt:       now,
	}

	err = e.checkCapacity(t.VehicleID, map[int64]decimal.Decimal{
		t.RequesterID: debit.OwnershipAfter,
		t.RecipientID: credit.OwnershipAfter,
	})
	if err != nil {
		return err
	}

	history := models.TransferHistoryRecord{
		TransferID:               t.ID,
		Action:                   models.ActionCompleted,
		ActorID:                  meta.ActorID,
		IP:                       meta.IP,
		UserAgent:                meta.UserAgent,
		RequesterOwnershipBefore: reqOwn,
		RequesterOwnershipAfter:  debit.OwnershipAfter,
		RecipientOwnershipBefore: recOwn,
		RecipientOwnershipAfter:  credit.OwnershipAfter,
		CreatedAt:                now,
	}

	// Commit point: no rollback path once this write begins.
	return e.repo.CommitTransfer(t, &debit, &credit, &history, doc)
}
