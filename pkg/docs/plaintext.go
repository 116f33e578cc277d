package docs

import (
	"fmt"

	"github.com/google/uuid"

	"spv_captable_back/models"
)

// PlaintextCoordinator is the fallback implementation used when no external
// document service is configured. It mints opaque handles and logs nothing
// durable; environments that need real artifacts configure the HTTP
// coordinator instead.
type PlaintextCoordinator struct{}

func NewPlaintextCoordinator() *PlaintextCoordinator {
	return &PlaintextCoordinator{}
}

func (c *PlaintextCoordinator) Generate(docType models.DocumentType, transfer models.Transfer, signers SignerData) (Handle, error) {
	return Handle{
		Ref:         fmt.Sprintf("doc_%s_%s_%s", docType, transfer.PublicID, uuid.NewString()),
		ContentType: "text/plain",
	}, nil
}
