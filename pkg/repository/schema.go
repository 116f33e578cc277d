package repository

import "github.com/jmoiron/sqlx"

// CreateTables bootstraps the schema on startup. Ledger, history and document
// rows are append-only; nothing here ever drops or rewrites data.
func CreateTables(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS investors (
			id BIGSERIAL PRIMARY KEY,
			public_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'investor',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGSERIAL PRIMARY KEY,
			public_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			total_commitment NUMERIC(20,2) NOT NULL DEFAULT 0,
			closing_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transfers (
			id BIGSERIAL PRIMARY KEY,
			public_id TEXT NOT NULL UNIQUE,
			requester_id BIGINT NOT NULL REFERENCES investors(id),
			recipient_id BIGINT NOT NULL REFERENCES investors(id),
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			percentage NUMERIC(9,4) NOT NULL,
			shares NUMERIC(20,4) NOT NULL DEFAULT 0,
			amount NUMERIC(20,2) NOT NULL,
			fee NUMERIC(20,2) NOT NULL DEFAULT 0,
			net_amount NUMERIC(20,2) NOT NULL,
			status TEXT NOT NULL,
			requester_ownership_before NUMERIC(9,4) NOT NULL DEFAULT 0,
			recipient_ownership_before NUMERIC(9,4) NOT NULL DEFAULT 0,
			requester_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			requester_confirmed_at TIMESTAMPTZ,
			requester_ip TEXT NOT NULL DEFAULT '',
			requester_signature TEXT NOT NULL DEFAULT '',
			requester_signature_kind TEXT NOT NULL DEFAULT '',
			requester_ack_terms BOOLEAN NOT NULL DEFAULT FALSE,
			requester_ack_risk BOOLEAN NOT NULL DEFAULT FALSE,
			requester_ack_irrevocable BOOLEAN NOT NULL DEFAULT FALSE,
			recipient_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			recipient_confirmed_at TIMESTAMPTZ,
			recipient_ip TEXT NOT NULL DEFAULT '',
			recipient_signature TEXT NOT NULL DEFAULT '',
			recipient_signature_kind TEXT NOT NULL DEFAULT '',
			recipient_ack_terms BOOLEAN NOT NULL DEFAULT FALSE,
			recipient_ack_risk BOOLEAN NOT NULL DEFAULT FALSE,
			recipient_ack_irrevocable BOOLEAN NOT NULL DEFAULT FALSE,
			approver_id BIGINT REFERENCES investors(id),
			approved_at TIMESTAMPTZ,
			compliance_checked BOOLEAN NOT NULL DEFAULT FALSE,
			kyc_checked BOOLEAN NOT NULL DEFAULT FALSE,
			documents_reviewed BOOLEAN NOT NULL DEFAULT FALSE,
			approval_notes TEXT NOT NULL DEFAULT '',
			rejection_reason TEXT,
			rejection_notes TEXT NOT NULL DEFAULT '',
			rejected_by BIGINT REFERENCES investors(id),
			rejected_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_requester ON transfers (requester_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_recipient ON transfers (recipient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_vehicle_status ON transfers (vehicle_id, status)`,
		`CREATE TABLE IF NOT EXISTS ownership_ledger (
			id BIGSERIAL PRIMARY KEY,
			investor_id BIGINT NOT NULL REFERENCES investors(id),
			vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
			entry_type TEXT NOT NULL,
			ownership_before NUMERIC(9,4) NOT NULL,
			ownership_after NUMERIC(9,4) NOT NULL,
			amount_before NUMERIC(20,2) NOT NULL,
			amount_after NUMERIC(20,2) NOT NULL,
			transfer_id BIGINT REFERENCES transfers(id),
			created_by BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_investor_vehicle ON ownership_ledger (investor_id, vehicle_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_vehicle ON ownership_ledger (vehicle_id, id)`,
		`CREATE TABLE IF NOT EXISTS transfer_history (
			id BIGSERIAL PRIMARY KEY,
			transfer_id BIGINT NOT NULL REFERENCES transfers(id),
			action TEXT NOT NULL,
			actor_id BIGINT NOT NULL,
			ip TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			requester_ownership_before NUMERIC(9,4) NOT NULL DEFAULT 0,
			requester_ownership_after NUMERIC(9,4) NOT NULL DEFAULT 0,
			recipient_ownership_before NUMERIC(9,4) NOT NULL DEFAULT 0,
			recipient_ownership_after NUMERIC(9,4) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_transfer ON transfer_history (transfer_id, id)`,
		`CREATE TABLE IF NOT EXISTS transfer_documents (
			id BIGSERIAL PRIMARY KEY,
			transfer_id BIGINT NOT NULL REFERENCES transfers(id),
			doc_type TEXT NOT NULL,
			version INTEGER NOT NULL,
			is_latest BOOLEAN NOT NULL DEFAULT TRUE,
			handle TEXT NOT NULL,
			content_type TEXT NOT NULL DEFAULT 'text/plain',
			requester_signed BOOLEAN NOT NULL DEFAULT FALSE,
			requester_signed_at TIMESTAMPTZ,
			requester_sign_ip TEXT NOT NULL DEFAULT '',
			requester_sign_data TEXT NOT NULL DEFAULT '',
			recipient_signed BOOLEAN NOT NULL DEFAULT FALSE,
			recipient_signed_at TIMESTAMPTZ,
			recipient_sign_ip TEXT NOT NULL DEFAULT '',
			recipient_sign_data TEXT NOT NULL DEFAULT '',
			visible_to_requester BOOLEAN NOT NULL DEFAULT TRUE,
			visible_to_recipient BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_transfer ON transfer_documents (transfer_id, doc_type, version)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
