package docs

import (
	"time"

	"spv_captable_back/models"
)

// SignerData carries the signature material embedded into a document. Values
// are copied verbatim from the stored party confirmations, never re-captured.
type SignerData struct {
	RequesterName      string
	RequesterSignature string
	RequesterSignedAt  *time.Time
	RequesterIP        string
	RecipientName      string
	RecipientSignature string
	RecipientSignedAt  *time.Time
	RecipientIP        string
}

type Handle struct {
	Ref         string `json:"ref"`
	ContentType string `json:"content_type"`
}

// Coordinator is the consumed document-generation collaborator. Rendering,
// storage backend and signature-image processing live behind it.
type Coordinator interface {
	Generate(docType models.DocumentType, transfer models.Transfer, signers SignerData) (Handle, error)
}
