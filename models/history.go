package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type HistoryAction string

const (
	ActionCreated            HistoryAction = "created"
	ActionRequesterConfirmed HistoryAction = "requester_confirmed"
	ActionRecipientConfirmed HistoryAction = "recipient_confirmed"
	ActionRecipientDeclined  HistoryAction = "recipient_declined"
	ActionApproved           HistoryAction = "approved"
	ActionRejected           HistoryAction = "rejected"
	ActionCancelled          HistoryAction = "cancelled"
	ActionCompleted          HistoryAction = "completed"
	ActionResubmitted        HistoryAction = "resubmitted"
)

// TransferHistoryRecord is one immutable audit row per state transition. Both
// parties' ledger positions are snapshotted before and after the transition
// and never recomputed later; only completion changes them, so before equals
// after everywhere else.
type TransferHistoryRecord struct {
	ID         int64         `db:"id" json:"id"`
	TransferID int64         `db:"transfer_id" json:"transfer_id"`
	Action     HistoryAction `db:"action" json:"action"`
	ActorID    int64         `db:"actor_id" json:"actor_id"`
	IP         string        `db:"ip" json:"ip,omitempty"`
	UserAgent  string        `db:"user_agent" json:"user_agent,omitempty"`
	Notes      string        `db:"notes" json:"notes,omitempty"`

	RequesterOwnershipBefore decimal.Decimal `db:"requester_ownership_before" json:"requester_ownership_before"`
	RequesterOwnershipAfter  decimal.Decimal `db:"requester_ownership_after" json:"requester_ownership_after"`
	RecipientOwnershipBefore decimal.Decimal `db:"recipient_ownership_before" json:"recipient_ownership_before"`
	RecipientOwnershipAfter  decimal.Decimal `db:"recipient_ownership_after" json:"recipient_ownership_after"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
