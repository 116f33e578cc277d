package service

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"spv_captable_back/models"
	"spv_captable_back/pkg/cache"
	"spv_captable_back/pkg/docs"
	"spv_captable_back/pkg/repository"
	"spv_captable_back/pkg/utils"
)

type TransferService struct {
	repos       *repository.Repository
	ledger      *ledgerEngine
	coordinator docs.Coordinator
}

func NewTransferService(repos *repository.Repository, ledger *ledgerEngine, coordinator docs.Coordinator) *TransferService {
	return &TransferService{
		repos:       repos,
		ledger:      ledger,
		coordinator: coordinator,
	}
}

func newPublicID() string {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return "tr_" + base58.Encode(buf)
}

func parseAmount(field, raw string, required bool) (decimal.Decimal, error) {
	if raw == "" {
		if required {
			return decimal.Zero, models.NewValidationError("%s is required", field)
		}
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, models.NewValidationError("%s is not a valid decimal: %s", field, raw)
	}
	if value.IsNegative() {
		return decimal.Zero, models.NewValidationError("%s must not be negative", field)
	}
	return value, nil
}

// parseDelta is parseAmount without the sign restriction, for correction
// entries that may move a position in either direction.
func parseDelta(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, models.NewValidationError("%s is required", field)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, models.NewValidationError("%s is not a valid decimal: %s", field, raw)
	}
	return value, nil
}

func (s *TransferService) load(publicID string) (models.Transfer, error) {
	t, err := s.repos.Transfer.GetByPublicID(publicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, models.NewNotFoundError("transfer %s not found", publicID)
		}
		return t, err
	}
	return t, nil
}

func (s *TransferService) Get(publicID string) (models.Transfer, error) {
	return s.load(publicID)
}

func (s *TransferService) Documents(publicID string) ([]models.TransferAgreementDocument, error) {
	t, err := s.load(publicID)
	if err != nil {
		return nil, err
	}
	return s.repos.Document.ListByTransfer(t.ID)
}

func (s *TransferService) History(publicID string) ([]models.TransferHistoryRecord, error) {
	t, err := s.load(publicID)
	if err != nil {
		return nil, err
	}
	return s.repos.History.ListByTransfer(t.ID)
}

// historyRecord builds the audit row for a transition, snapshotting both
// parties' current ledger positions at call time. Non-completion transitions
// leave the ledger alone, so before equals after. Completion rows are built
// inside the ledger commit instead.
func (s *TransferService) historyRecord(t *models.Transfer, action models.HistoryAction, meta RequestMeta, notes string) (*models.TransferHistoryRecord, error) {
	reqOwn, _, err := s.ledger.position(t.RequesterID, t.VehicleID)
	if err != nil {
		return nil, err
	}
	recOwn, _, err := s.ledger.position(t.RecipientID, t.VehicleID)
	if err != nil {
		return nil, err
	}

	return &models.TransferHistoryRecord{
		TransferID:               t.ID,
		Action:                   action,
		ActorID:                  meta.ActorID,
		IP:                       meta.IP,
		UserAgent:                meta.UserAgent,
		Notes:                    notes,
		RequesterOwnershipBefore: reqOwn,
		RequesterOwnershipAfter:  reqOwn,
		RecipientOwnershipBefore: recOwn,
		RecipientOwnershipAfter:  recOwn,
		CreatedAt:                time.Now().UTC(),
	}, nil
}

// notify fires the notification sink without awaiting it. Failures are logged
// inside the sink and never surface into the transition.
func (s *TransferService) notify(t models.Transfer, action models.HistoryAction, investorID int64) {
	go func() {
		investor, err := s.repos.Directory.GetInvestor(investorID)
		if err != nil {
			logrus.Errorf("notification lookup for investor %d failed: %s", investorID, err)
			return
		}
		utils.NotifyTransferEvent(t, action, investor.Email, investor.Name)
	}()
}

func (s *TransferService) Create(meta RequestMeta, input models.CreateTransferInput) (models.Transfer, error) {
	if meta.ActorID == input.RecipientID {
		return models.Transfer{}, models.NewValidationError("requester and recipient must be different investors")
	}

	percentage, err := parseAmount("percentage", input.Percentage, true)
	if err != nil {
		return models.Transfer{}, err
	}
	if percentage.IsZero() {
		return models.Transfer{}, models.NewValidationError("percentage must be greater than zero")
	}
	shares, err := parseAmount("shares", input.Shares, false)
	if err != nil {
		return models.Transfer{}, err
	}
	amount, err := parseAmount("amount", input.Amount, true)
	if err != nil {
		return models.Transfer{}, err
	}
	fee, err := parseAmount("fee", input.Fee, false)
	if err != nil {
		return models.Transfer{}, err
	}
	if fee.GreaterThan(amount) {
		return models.Transfer{}, models.NewValidationError("fee must not exceed amount")
	}

	if _, err := s.repos.Directory.GetInvestor(input.RecipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transfer{}, models.NewValidationError("recipient %d does not exist", input.RecipientID)
		}
		return models.Transfer{}, err
	}
	if _, err := s.repos.Directory.GetVehicle(input.VehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transfer{}, models.NewValidationError("vehicle %d does not exist", input.VehicleID)
		}
		return models.Transfer{}, err
	}

	requesterOwn, _, err := s.ledger.position(meta.ActorID, input.VehicleID)
	if err != nil {
		return models.Transfer{}, err
	}
	if !requesterOwn.IsPositive() {
		return models.Transfer{}, models.NewValidationError("requester has no active stake in vehicle %d", input.VehicleID)
	}
	if percentage.GreaterThan(requesterOwn) {
		return models.Transfer{}, models.NewValidationError(
			"cannot transfer %s%%, requester holds %s%%", percentage.String(), requesterOwn.String())
	}
	recipientOwn, _, err := s.ledger.position(input.RecipientID, input.VehicleID)
	if err != nil {
		return models.Transfer{}, err
	}

	t := models.Transfer{
		PublicID:                 newPublicID(),
		RequesterID:              meta.ActorID,
		RecipientID:              input.RecipientID,
		VehicleID:                input.VehicleID,
		Percentage:               percentage,
		Shares:                   shares,
		Amount:                   amount,
		Fee:                      fee,
		Status:                   models.StatusPendingRequesterConfirmation,
		RequesterOwnershipBefore: requesterOwn,
		RecipientOwnershipBefore: recipientOwn,
		CreatedAt:                time.Now().UTC(),
	}
	t.RecomputeNet()
	t.UpdatedAt = t.CreatedAt

	rec, err := s.historyRecord(&t, models.ActionCreated, meta, "")
	if err != nil {
		return models.Transfer{}, err
	}
	if err := s.repos.Transfer.Create(&t, rec); err != nil {
		return models.Transfer{}, err
	}

	logrus.Infof("transfer %s created: %s%% of vehicle %d from %d to %d",
		t.PublicID, percentage.String(), t.VehicleID, t.RequesterID, t.RecipientID)
	s.notify(t, models.ActionCreated, t.RecipientID)
	return t, nil
}

func validateConfirmation(input models.ConfirmTransferInput) error {
	if !input.AckTerms || !input.AckRisk || !input.AckIrrevocable {
		return models.NewValidationError("all three acknowledgements must be accepted")
	}
	if input.Signature == "" {
		return models.NewValidationError("signature must not be empty")
	}
	return nil
}

func sameConfirmation(input models.ConfirmTransferInput, signature string, kind models.SignatureKind, ackTerms, ackRisk, ackIrrevocable bool) bool {
	return input.Signature == signature &&
		models.SignatureKind(input.SignatureKind) == kind &&
		input.AckTerms == ackTerms &&
		input.AckRisk == ackRisk &&
		input.AckIrrevocable == ackIrrevocable
}

func (s *TransferService) ConfirmAsRequester(meta RequestMeta, publicID string, input models.ConfirmTransferInput) (models.Transfer, error) {
	t, err := s.load(publicID)
	if err != nil {
		return t, err
	}
	if meta.ActorID != t.RequesterID {
		return t, models.NewPermissionError("only the requester may confirm this step")
	}

	if t.RequesterConfirmed {
		// Supports client retry after a dropped response: a byte-identical
		// resubmission is a no-op, anything else conflicts with the locked
		// confirmation.
		if sameConfirmation(input, t.RequesterSignature, t.RequesterSignatureKind,
			t.RequesterAckTerms, t.RequesterAckRisk, t.RequesterAckIrrevocable) {
			return t, nil
		}
		return t, models.NewStateConflictError("requester confirmation is already recorded and cannot change")
	}
	if t.Status != models.StatusPendingRequesterConfirmation {
		return t, models.NewStateConflictError("transfer %s is %s, expected %s",
			publicID, t.Status, models.StatusPendingRequesterConfirmation)
	}
	if err := validateConfirmation(input); err != nil {
		return t, err
	}

	now := time.Now().UTC()
	t.RequesterConfirmed = true
	t.RequesterConfirmedAt = &now
	t.RequesterIP = meta.IP
	t.RequesterSignature = input.Signature
	t.RequesterSignatureKind = models.SignatureKind(input.SignatureKind)
	t.RequesterAckTerms = input.AckTerms
	t.RequesterAckRisk = input.AckRisk
	t.RequesterAckIrrevocable = input.AckIrrevocable

	requester, err := s.repos.Directory.GetInvestor(t.RequesterID)
	if err != nil {
		return t, err
	}
	recipient, err := s.repos.Directory.GetInvestor(t.RecipientID)
	if err != nil {
		return t, err
	}

	// Coordinator is called before anything is persisted so a failed call
	// leaves the transfer untouched and retryable.
	handle, err := s.coordinator.Generate(models.DocTransferRequest, t, docs.SignerData{
		RequesterName:      requester.Name,
		RequesterSignature: t.RequesterSignature,
		RequesterSignedAt:  t.RequesterConfirmedAt,
		RequesterIP:        t.RequesterIP,
		RecipientName:      recipient.Name,
	})
	if err != nil {
		return t, err
	}

	t.Status = models.StatusPendingRecipientConfirmation
	t.UpdatedAt = now
	rec, err := s.historyRecord(&t, models.ActionRequesterConfirmed, meta, "")
	if err != nil {
		return t, err
	}
	if err := s.repos.Transfer.ApplyTransition(&t, repository.TransitionWrite{
		History: rec,
		Document: &models.TransferAgreementDocument{
			TransferID:         t.ID,
			DocType:            models.DocTransferRequest,
			Handle:             handle.Ref,
			ContentType:        handle.ContentType,
			RequesterSigned:    true,
			RequesterSignedAt:  t.RequesterConfirmedAt,
			RequesterSignIP:    t.RequesterIP,
			RequesterSignData:  t.RequesterSignature,
			VisibleToRequester: true,
			VisibleToRecipient: true,
			CreatedAt:          now,
		},
	}); err != nil {
		return t, err
	}

	s.notify(t, models.ActionRequesterConfirmed, t.RecipientID)
	return t, nil
}

func (s *TransferService) ConfirmAsRecipient(meta RequestMeta, publicID string, input models.ConfirmTransferInput) (models.Transfer, error) {
	t, err := s.load(publicID)
	if err != nil {
		return t, err
	}
	if meta.ActorID != t.RecipientID {
		return t, models.NewPermissionError("only the recipient may confirm this step")
	}

	if t.RecipientConfirmed {
		if sameConfirmation(input, t.RecipientSignature, t.RecipientSignatureKind,
			t.RecipientAckTerms, t.RecipientAckRisk, t.RecipientAckIrrevocable) {
			return t, nil
		}
		return t, models.NewStateConflictError("recipient confirmation is already recorded and cannot change")
	}
	if t.Status != models.StatusPendingRecipientConfirmation {
		return t, models.NewStateConflictError("transfer %s is %s, expected %s",
			publicID, t.Status, models.StatusPendingRecipientConfirmation)
	}
	if err := validateConfirmation(input); err != nil {
		return t, err
	}

	now := time.Now().UTC()
	t.RecipientConfirmed = true
	t.RecipientConfirmedAt = &now
	t.RecipientIP = meta.IP
	t.RecipientSignature = input.Signature
	t.RecipientSignatureKind = models.SignatureKind(input.SignatureKind)
	t.RecipientAckTerms = input.AckTerms
	t.RecipientAckRisk = input.AckRisk
	t.RecipientAckIrrevocable = input.AckIrrevocable

	requester, err := s.repos.Directory.GetInvestor(t.RequesterID)
	if err != nil {
		return t, err
	}
	recipient, err := s.repos.Directory.GetInvestor(t.RecipientID)
	if err != nil {
		return t, err
	}

	handle, err := s.coordinator.Generate(models.DocAcceptance, t, docs.SignerData{
		RequesterName:      requester.Name,
		RecipientName:      recipient.Name,
		RecipientSignature: t.RecipientSignature,
		RecipientSignedAt:  t.RecipientConfirmedAt,
		RecipientIP:        t.RecipientIP,
	})
	if err != nil {
		return t, err
	}

	t.Status = models.StatusPendingApproval
	t.UpdatedAt = now
	rec, err := s.historyRecord(&t, models.ActionRecipientConfirmed, meta, "")
	if err != nil {
		return t, err
	}
	if err := s.repos.Transfer.ApplyTransition(&t, repository.TransitionWrite{
		History: rec,
		Document: &models.TransferAgreementDocument{
			TransferID:         t.ID,
			DocType:            models.DocAcceptance,
			Handle:             handle.Ref,
			ContentType:        handle.ContentType,
			RecipientSigned:    true,
			RecipientSignedAt:  t.RecipientConfirmedAt,
			RecipientSignIP:    t.RecipientIP,
			RecipientSignData:  t.RecipientSignature,
			VisibleToRequester: true,
			VisibleToRecipient: true,
			CreatedAt:          now,
		},
	}); err != nil {
		return t, err
	}

	s.notify(t, models.ActionRecipientConfirmed, t.RequesterID)
	return t, nil
}

func (s *TransferService) DeclineAsRecipient(meta RequestMeta, publicID string, input models.DeclineTransferInput) (models.Transfer, error) {
	t, err := s.load(publicID)
	if err != nil {
		return t, err
	}
	if meta.ActorID != t.RecipientID {
		return t, models.NewPermissionError("only the recipient may decline")
	}

	if t.Status == models.StatusRejected && t.RejectionReason != nil && *t.RejectionReason == models.ReasonRecipientDeclined {
		// Retry of the recorded decline is a no-op; different notes conflict
		// with what was recorded.
		if input.Notes == t.RejectionNotes {
			return t, nil
		}
		return t, models.NewStateConflictError("decline of transfer %s is already recorded and cannot change", publicID)
	}
	if t.Status != models.StatusPendingRecipientConfirmation {
		return t, models.NewStateConflictError("transfer %s is %s, expected %s",
			publicID, t.Status, models.StatusPendingRecipientConfirmation)
	}

	now := time.Now().UTC()
	reason := models.ReasonRecipientDeclined
	t.Status = models.StatusRejected
	t.RejectionReason = &reason
	t.RejectionNotes = input.Notes
	t.RejectedBy = &meta.ActorID
	t.RejectedAt = &now
	t.UpdatedAt = now
	rec, err := s.historyRecord(&t, models.ActionRecipientDeclined, meta, input.Notes)
	if err != nil {
		return t, err
	}
	if err := s.repos.Transfer.ApplyTransition(&t, repository.TransitionWrite{History: rec}); err != nil {
		return t, err
	}

	s.notify(t, models.ActionRecipientDeclined, t.RequesterID)
	return t, nil
}

func (s *TransferService) requireManager(actorID int64) error {
	actor, err := s.repos.Directory.GetInvestor(actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewPermissionError("actor %d is not known", actorID)
		}
		return err
	}
	if actor.Role != models.RoleManager {
		return models.NewPermissionError("actor %d is not a manager", actorID)
	}
	return nil
}

func (s *TransferService) Approve(meta RequestMeta, publicID string, input models.ApproveTransferInput) (models.Transfer, error) {
	t, err := s.load(publicID)
	if err != nil {
		return t, err
	}
	if err := s.requireManager(meta.ActorID); err != nil {
		return t, err
	}

	if t.Status == models.StatusApproved || t.Status == models.StatusCompleted {
		// Retry of the recorded approval is a no-op; a different payload
		// conflicts with what was recorded.
		if input.ComplianceChecked == t.ComplianceChecked &&
			input.KYCChecked == t.KYCChecked &&
			input.DocumentsReviewed == t.DocumentsReviewed &&
			input.Notes == t.ApprovalNotes {
			return t, nil
		}
		return t, models.NewStateConflictError("approval of transfer %s is already recorded and cannot change", publicID)
	}
	if t.Status != models.StatusPendingApproval {
		return t, models.NewStateConflictError("transfer %s is %s, expected %s",
			publicID, t.Status, models.StatusPendingApproval)
	}
	if !input.ComplianceChecked || !input.KYCChecked || !input.DocumentsReviewed {
		return t, models.NewValidationError("compliance, KYC and document checks must all be verified")
	}

	now := time.Now().UTC()
	t.Status = models.StatusApproved
	t.ApproverID = &meta.ActorID
	t.ApprovedAt = &now
	t.ComplianceChecked = true
	t.KYCChecked = true
	t.DocumentsReviewed = true
	t.ApprovalNotes = input.Notes
	t.UpdatedAt = now
	rec, err := s.historyRecord(&t, models.ActionApproved, meta, input.Notes)
	if err != nil {
		return t, err
	}
	if err := s.repos.Transfer.ApplyTransition(&t, repository.TransitionWrite{History: rec}); err != nil {
		return t, err
	}

	s.notify(t, models.ActionApproved, t.RequesterID)
	return t, nil
}

func (s *TransferService) Reject(meta RequestMeta, publicID string, input models.RejectTransferInput) (models.Transfer, error) {
	t, err := s.load(publicID)
	if err != nil {
		return t, err
	}
	if err := s.requireManager(meta.ActorID); err != nil {
		return t, err
	}

	reason := models.RejectionReason(input.Reason)
	if t.Status == models.StatusRejected {
		if t.RejectionReason != nil && *t.RejectionReason == reason && input.Notes == t.RejectionNotes {
			return t, nil
		}
		return t, models.NewStateConflictError("transfer %s is already rejected", publicID)
	}
	if t.Status != models.StatusPendingApproval {
		return t, models.NewStateConflictError("transfer %s is %s, expected %s",
			publicID, t.Status, models.StatusPendingApproval)
	}
	if !models.ComplianceReasons[reason] {
		return t, models.NewValidationError("unknown rejection reason %q", input.Reason)
	}

	now := time.Now().UTC()
	t.Status = models.StatusRejected
	t.RejectionReason = &reason
	t.RejectionNotes = input.Notes
	t.RejectedBy = &meta.ActorID
	t.RejectedAt = &now
	t.UpdatedAt = now
	rec, err := s.historyRecord(&t, models.ActionRejected, meta, input.Notes)
	if err != nil {
		return t, err
	}
	if err := s.repos.Transfer.ApplyTransition(&t, repository.TransitionWrite{History: rec}); err != nil {
		return t, err
	}

	s.notify(t, models.ActionRejected, t.RequesterID)
	return t, nil
}

func (s *TransferService) Cancel(meta RequestMeta, publicID string) (models.Transfer, error) {
	t, err := s.load(publicID)
	if err != nil {
		return t, err
	}
	if meta.ActorID != t.RequesterID {
		return t, models.NewPermissionError("only the requester may cancel")
	}

	if t.Status == models.StatusCancelled {
		return t, nil
	}
	if t.Status != models.StatusPendingRequesterConfirmation && t.Status != models.StatusPendingRecipientConfirmation {
		return t, models.NewStateConflictError("transfer %s is %s and can no longer be cancelled", publicID, t.Status)
	}

	now := time.Now().UTC()
	t.Status = models.StatusCancelled
	t.UpdatedAt = now
	rec, err := s.historyRecord(&t, models.ActionCancelled, meta, "")
	if err != nil {
		return t, err
	}
	if err := s.repos.Transfer.ApplyTransition(&t, repository.TransitionWrite{History: rec}); err != nil {
		return t, err
	}

	s.notify(t, models.ActionCancelled, t.RecipientID)
	return t, nil
}

func (s *TransferService) Complete(meta RequestMeta, publicID string) (models.Transfer, error) {
	t, err := s.load(publicID)
	if err != nil {
		return t, err
	}
	if err := s.requireManager(meta.ActorID); err != nil {
		return t, err
	}

	if t.Status == models.StatusCompleted {
		return t, nil
	}
	if t.Status != models.StatusApproved {
		return t, models.NewStateConflictError("transfer %s is %s, expected %s",
			publicID, t.Status, models.StatusApproved)
	}

	requester, err := s.repos.Directory.GetInvestor(t.RequesterID)
	if err != nil {
		return t, err
	}
	recipient, err := s.repos.Directory.GetInvestor(t.RecipientID)
	if err != nil {
		return t, err
	}

	// The final agreement embeds both parties' signatures verbatim, copied
	// from the per-party documents rather than re-captured.
	signers := docs.SignerData{
		RequesterName: requester.Name,
		RecipientName: recipient.Name,
	}
	if reqDoc, err := s.repos.Document.LatestByType(t.ID, models.DocTransferRequest); err != nil {
		return t, err
	} else if reqDoc != nil {
		signers.RequesterSignature = reqDoc.RequesterSignData
		signers.RequesterSignedAt = reqDoc.RequesterSignedAt
		signers.RequesterIP = reqDoc.RequesterSignIP
	}
	if accDoc, err := s.repos.Document.LatestByType(t.ID, models.DocAcceptance); err != nil {
		return t, err
	} else if accDoc != nil {
		signers.RecipientSignature = accDoc.RecipientSignData
		signers.RecipientSignedAt = accDoc.RecipientSignedAt
		signers.RecipientIP = accDoc.RecipientSignIP
	}

	handle, err := s.coordinator.Generate(models.DocFinalAgreement, t, signers)
	if err != nil {
		return t, err
	}

	// The document row lands inside the ledger commit, so a refused commit
	// leaves no final agreement behind.
	now := time.Now().UTC()
	finalDoc := &models.TransferAgreementDocument{
		TransferID:         t.ID,
		DocType:            models.DocFinalAgreement,
		Handle:             handle.Ref,
		ContentType:        handle.ContentType,
		RequesterSigned:    true,
		RequesterSignedAt:  signers.RequesterSignedAt,
		RequesterSignIP:    signers.RequesterIP,
		RequesterSignData:  signers.RequesterSignature,
		RecipientSigned:    true,
		RecipientSignedAt:  signers.RecipientSignedAt,
		RecipientSignIP:    signers.RecipientIP,
		RecipientSignData:  signers.RecipientSignature,
		VisibleToRequester: true,
		VisibleToRecipient: true,
		CreatedAt:          now,
	}

	t.Status = models.StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	if err := s.ledger.commitTransfer(&t, finalDoc, meta); err != nil {
		// The transfer stays approved; completion is retryable by id unless
		// the ledger itself refused the move.
		t.Status = models.StatusApproved
		t.CompletedAt = nil

		// A conflict means another completion won the commit. That call
		// already moved the stake, so this one reports the same outcome.
		var conflict *models.StateConflictError
		if errors.As(err, &conflict) {
			if current, loadErr := s.load(publicID); loadErr == nil && current.Status == models.StatusCompleted {
				return current, nil
			}
		}
		return t, err
	}

	cache.InvalidateCapTable(t.VehicleID)
	logrus.Infof("transfer %s completed: %s%% of vehicle %d moved from %d to %d",
		t.PublicID, t.Percentage.String(), t.VehicleID, t.RequesterID, t.RecipientID)
	s.notify(t, models.ActionCompleted, t.RequesterID)
	s.notify(t, models.ActionCompleted, t.RecipientID)
	return t, nil
}

// Resubmit returns a pending-approval or rejected transfer to the start of
// the confirmation flow with a new amount. Both confirmations, the approval
// and the rejection records are cleared and every signed document is
// superseded: the parties are signing different terms now.
func (s *TransferService) Resubmit(meta RequestMeta, publicID string, input models.ResubmitTransferInput) (models.Transfer, error) {
	t, err := s.load(publicID)
	if err != nil {
		return t, err
	}
	if meta.ActorID != t.RequesterID {
		return t, models.NewPermissionError("only the requester may resubmit")
	}
	if t.Status != models.StatusPendingApproval && t.Status != models.StatusRejected {
		return t, models.NewStateConflictError("transfer %s is %s and cannot be resubmitted", publicID, t.Status)
	}

	amount, err := parseAmount("amount", input.Amount, true)
	if err != nil {
		return t, err
	}
	fee, err := parseAmount("fee", input.Fee, false)
	if err != nil {
		return t, err
	}
	if fee.GreaterThan(amount) {
		return t, models.NewValidationError("fee must not exceed amount")
	}

	now := time.Now().UTC()
	t.Amount = amount
	t.Fee = fee
	t.RecomputeNet()
	t.Status = models.StatusPendingRequesterConfirmation

	t.RequesterConfirmed = false
	t.RequesterConfirmedAt = nil
	t.RequesterIP = ""
	t.RequesterSignature = ""
	t.RequesterSignatureKind = ""
	t.RequesterAckTerms = false
	t.RequesterAckRisk = false
	t.RequesterAckIrrevocable = false

	t.RecipientConfirmed = false
	t.RecipientConfirmedAt = nil
	t.RecipientIP = ""
	t.RecipientSignature = ""
	t.RecipientSignatureKind = ""
	t.RecipientAckTerms = false
	t.RecipientAckRisk = false
	t.RecipientAckIrrevocable = false

	t.ApproverID = nil
	t.ApprovedAt = nil
	t.ComplianceChecked = false
	t.KYCChecked = false
	t.DocumentsReviewed = false
	t.ApprovalNotes = ""

	t.RejectionReason = nil
	t.RejectionNotes = ""
	t.RejectedBy = nil
	t.RejectedAt = nil

	t.UpdatedAt = now

	rec, err := s.historyRecord(&t, models.ActionResubmitted, meta, "")
	if err != nil {
		return t, err
	}
	if err := s.repos.Transfer.ApplyTransition(&t, repository.TransitionWrite{
		History:            rec,
		SupersedeDocuments: true,
	}); err != nil {
		return t, err
	}

	s.notify(t, models.ActionResubmitted, t.RecipientID)
	return t, nil
}
