package models

import "time"

type DocumentType string

const (
	DocTransferRequest DocumentType = "transfer_request"
	DocAcceptance      DocumentType = "acceptance"
	DocFinalAgreement  DocumentType = "final_agreement"
)

// TransferAgreementDocument is one version of an agreement artifact. Rows are
// append-only per version; superseding a document only flips is_latest.
type TransferAgreementDocument struct {
	ID         int64        `db:"id" json:"id"`
	TransferID int64        `db:"transfer_id" json:"-"`
	DocType    DocumentType `db:"doc_type" json:"doc_type"`
	Version    int          `db:"version" json:"version"`
	IsLatest   bool         `db:"is_latest" json:"is_latest"`

	// Handle and content type returned by the document coordinator.
	Handle      string `db:"handle" json:"handle"`
	ContentType string `db:"content_type" json:"content_type"`

	// Signatures copied verbatim from the party confirmations, never
	// re-captured.
	RequesterSigned   bool       `db:"requester_signed" json:"requester_signed"`
	RequesterSignedAt *time.Time `db:"requester_signed_at" json:"requester_signed_at,omitempty"`
	RequesterSignIP   string     `db:"requester_sign_ip" json:"-"`
	RequesterSignData string     `db:"requester_sign_data" json:"-"`
	RecipientSigned   bool       `db:"recipient_signed" json:"recipient_signed"`
	RecipientSignedAt *time.Time `db:"recipient_signed_at" json:"recipient_signed_at,omitempty"`
	RecipientSignIP   string     `db:"recipient_sign_ip" json:"-"`
	RecipientSignData string     `db:"recipient_sign_data" json:"-"`

	VisibleToRequester bool `db:"visible_to_requester" json:"visible_to_requester"`
	VisibleToRecipient bool `db:"visible_to_recipient" json:"visible_to_recipient"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
