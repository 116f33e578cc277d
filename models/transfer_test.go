package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecomputeNet(t *testing.T) {
	tr := Transfer{
		Amount: decimal.NewFromInt(50000),
		Fee:    decimal.NewFromInt(1250),
	}
	tr.RecomputeNet()
	assert.True(t, tr.NetAmount.Equal(decimal.NewFromInt(48750)))

	tr.Fee = decimal.Zero
	tr.RecomputeNet()
	assert.True(t, tr.NetAmount.Equal(tr.Amount))
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []TransferStatus{StatusCompleted, StatusRejected, StatusCancelled}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "%s should be terminal", s)
	}
	open := []TransferStatus{
		StatusPendingRequesterConfirmation,
		StatusPendingRecipientConfirmation,
		StatusPendingApproval,
		StatusApproved,
	}
	for _, s := range open {
		assert.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestComplianceReasonsExcludeRecipientDecline(t *testing.T) {
	assert.False(t, ComplianceReasons[ReasonRecipientDeclined])
	assert.True(t, ComplianceReasons[ReasonComplianceIssue])
	assert.False(t, ComplianceReasons[RejectionReason("bad_vibes")])
}
