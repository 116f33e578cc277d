package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	StatusPendingRequesterConfirmation TransferStatus = "pending_requester_confirmation"
	StatusPendingRecipientConfirmation TransferStatus = "pending_recipient_confirmation"
	StatusPendingApproval              TransferStatus = "pending_approval"
	StatusApproved                     TransferStatus = "approved"
	StatusCompleted                    TransferStatus = "completed"
	StatusRejected                     TransferStatus = "rejected"
	StatusCancelled                    TransferStatus = "cancelled"
)

// Terminal reports whether the transfer can never change again.
func (s TransferStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

type RejectionReason string

const (
	ReasonRecipientNotVerified RejectionReason = "recipient_not_verified"
	ReasonInsufficientFunds    RejectionReason = "insufficient_funds"
	ReasonInvalidDocuments     RejectionReason = "invalid_documents"
	ReasonComplianceIssue      RejectionReason = "compliance_issue"
	ReasonOther                RejectionReason = "other"
	// ReasonRecipientDeclined is set by the recipient's decline action and is
	// not accepted by the approval gate's reject operation.
	ReasonRecipientDeclined RejectionReason = "recipient_declined"
)

// ComplianceReasons are the reason codes the approval gate accepts on reject.
var ComplianceReasons = map[RejectionReason]bool{
	ReasonRecipientNotVerified: true,
	ReasonInsufficientFunds:    true,
	ReasonInvalidDocuments:     true,
	ReasonComplianceIssue:      true,
	ReasonOther:                true,
}

type SignatureKind string

const (
	SignatureTyped SignatureKind = "typed"
	SignatureDrawn SignatureKind = "drawn"
)

type Transfer struct {
	ID          int64           `db:"id" json:"-"`
	PublicID    string          `db:"public_id" json:"id"`
	RequesterID int64           `db:"requester_id" json:"requester_id"`
	RecipientID int64           `db:"recipient_id" json:"recipient_id"`
	VehicleID   int64           `db:"vehicle_id" json:"vehicle_id"`
	Percentage  decimal.Decimal `db:"percentage" json:"percentage"`
	Shares      decimal.Decimal `db:"shares" json:"shares"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Fee         decimal.Decimal `db:"fee" json:"fee"`
	NetAmount   decimal.Decimal `db:"net_amount" json:"net_amount"`
	Status      TransferStatus  `db:"status" json:"status"`

	// Ownership values read from the ledger when the request was created.
	RequesterOwnershipBefore decimal.Decimal `db:"requester_ownership_before" json:"requester_ownership_before"`
	RecipientOwnershipBefore decimal.Decimal `db:"recipient_ownership_before" json:"recipient_ownership_before"`

	// Requester confirmation, write-once.
	RequesterConfirmed      bool          `db:"requester_confirmed" json:"requester_confirmed"`
	RequesterConfirmedAt    *time.Time    `db:"requester_confirmed_at" json:"requester_confirmed_at,omitempty"`
	RequesterIP             string        `db:"requester_ip" json:"-"`
	RequesterSignature      string        `db:"requester_signature" json:"-"`
	RequesterSignatureKind  SignatureKind `db:"requester_signature_kind" json:"requester_signature_kind,omitempty"`
	RequesterAckTerms       bool          `db:"requester_ack_terms" json:"requester_ack_terms"`
	RequesterAckRisk        bool          `db:"requester_ack_risk" json:"requester_ack_risk"`
	RequesterAckIrrevocable bool          `db:"requester_ack_irrevocable" json:"requester_ack_irrevocable"`

	// Recipient confirmation, write-once.
	RecipientConfirmed      bool          `db:"recipient_confirmed" json:"recipient_confirmed"`
	RecipientConfirmedAt    *time.Time    `db:"recipient_confirmed_at" json:"recipient_confirmed_at,omitempty"`
	RecipientIP             string        `db:"recipient_ip" json:"-"`
	RecipientSignature      string        `db:"recipient_signature" json:"-"`
	RecipientSignatureKind  SignatureKind `db:"recipient_signature_kind" json:"recipient_signature_kind,omitempty"`
	RecipientAckTerms       bool          `db:"recipient_ack_terms" json:"recipient_ack_terms"`
	RecipientAckRisk        bool          `db:"recipient_ack_risk" json:"recipient_ack_risk"`
	RecipientAckIrrevocable bool          `db:"recipient_ack_irrevocable" json:"recipient_ack_irrevocable"`

	ApproverID        *int64     `db:"approver_id" json:"approver_id,omitempty"`
	ApprovedAt        *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	ComplianceChecked bool       `db:"compliance_checked" json:"compliance_checked"`
	KYCChecked        bool       `db:"kyc_checked" json:"kyc_checked"`
	DocumentsReviewed bool       `db:"documents_reviewed" json:"documents_reviewed"`
	ApprovalNotes     string     `db:"approval_notes" json:"approval_notes,omitempty"`

	RejectionReason *RejectionReason `db:"rejection_reason" json:"rejection_reason,omitempty"`
	RejectionNotes  string           `db:"rejection_notes" json:"rejection_notes,omitempty"`
	RejectedBy      *int64           `db:"rejected_by" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time       `db:"rejected_at" json:"rejected_at,omitempty"`

	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// RecomputeNet keeps net_amount consistent with amount and fee. Called on
// every mutation of either field.
func (t *Transfer) RecomputeNet() {
	t.NetAmount = t.Amount.Sub(t.Fee)
}

type CreateTransferInput struct {
	RecipientID int64  `json:"recipient_id" binding:"required"`
	VehicleID   int64  `json:"vehicle_id" binding:"required"`
	Percentage  string `json:"percentage" binding:"required"`
	Shares      string `json:"shares"`
	Amount      string `json:"amount" binding:"required"`
	Fee         string `json:"fee"`
}

type ConfirmTransferInput struct {
	AckTerms       bool   `json:"ack_terms"`
	AckRisk        bool   `json:"ack_risk"`
	AckIrrevocable bool   `json:"ack_irrevocable"`
	Signature      string `json:"signature"`
	SignatureKind  string `json:"signature_kind"`
}

type DeclineTransferInput struct {
	Notes string `json:"notes"`
}

type ApproveTransferInput struct {
	ComplianceChecked bool   `json:"compliance_checked"`
	KYCChecked        bool   `json:"kyc_checked"`
	DocumentsReviewed bool   `json:"documents_reviewed"`
	Notes             string `json:"notes"`
}

type RejectTransferInput struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes" binding:"required"`
}

type ResubmitTransferInput struct {
	Amount string `json:"amount" binding:"required"`
	Fee    string `json:"fee"`
}
