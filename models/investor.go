package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvestorRole string

const (
	RoleInvestor InvestorRole = "investor"
	RoleManager  InvestorRole = "manager"
)

type Investor struct {
	ID        int64        `db:"id" json:"id"`
	PublicID  string       `db:"public_id" json:"public_id"`
	Name      string       `db:"name" json:"name"`
	Email     string       `db:"email" json:"email"`
	Role      InvestorRole `db:"role" json:"role"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

type Vehicle struct {
	ID              int64           `db:"id" json:"id"`
	PublicID        string          `db:"public_id" json:"public_id"`
	Name            string          `db:"name" json:"name"`
	TotalCommitment decimal.Decimal `db:"total_commitment" json:"total_commitment"`
	ClosingDate     *time.Time      `db:"closing_date" json:"closing_date,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
