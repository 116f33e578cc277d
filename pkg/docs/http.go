package docs

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"spv_captable_back/models"
)

// HTTPCoordinator talks to the external document service. Calls are blocking
// with a bounded timeout and at most one automatic retry; the caller rolls
// back the triggering transition when retries are exhausted.
type HTTPCoordinator struct {
	client  *resty.Client
	baseURL string
}

func NewHTTPCoordinator(baseURL string, timeout time.Duration) *HTTPCoordinator {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(1)

	return &HTTPCoordinator{
		client:  client,
		baseURL: baseURL,
	}
}

type generateRequest struct {
	DocType    models.DocumentType `json:"doc_type"`
	TransferID string              `json:"transfer_id"`
	VehicleID  int64               `json:"vehicle_id"`
	Percentage string              `json:"percentage"`
	Amount     string              `json:"amount"`
	NetAmount  string              `json:"net_amount"`

	RequesterName      string     `json:"requester_name"`
	RequesterSignature string     `json:"requester_signature,omitempty"`
	RequesterSignedAt  *time.Time `json:"requester_signed_at,omitempty"`
	RecipientName      string     `json:"recipient_name"`
	RecipientSignature string     `json:"recipient_signature,omitempty"`
	RecipientSignedAt  *time.Time `json:"recipient_signed_at,omitempty"`
}

func (c *HTTPCoordinator) Generate(docType models.DocumentType, transfer models.Transfer, signers SignerData) (Handle, error) {
	body := generateRequest{
		DocType:            docType,
		TransferID:         transfer.PublicID,
		VehicleID:          transfer.VehicleID,
		Percentage:         transfer.Percentage.String(),
		Amount:             transfer.Amount.String(),
		NetAmount:          transfer.NetAmount.String(),
		RequesterName:      signers.RequesterName,
		RequesterSignature: signers.RequesterSignature,
		RequesterSignedAt:  signers.RequesterSignedAt,
		RecipientName:      signers.RecipientName,
		RecipientSignature: signers.RecipientSignature,
		RecipientSignedAt:  signers.RecipientSignedAt,
	}

	var handle Handle
	resp, err := c.client.R().
		SetHeader("Accept", "application/json").
		SetBody(body).
		SetResult(&handle).
		Post(c.baseURL + "/documents/generate")
	if err != nil {
		logrus.Errorf("document coordinator unreachable: %s", err)
		return Handle{}, models.NewExternalServiceError("document-coordinator", "generate %s: %s", docType, err)
	}
	if resp.IsError() {
		logrus.Errorf("document coordinator returned %d for %s/%s", resp.StatusCode(), transfer.PublicID, docType)
		return Handle{}, models.NewExternalServiceError("document-coordinator", "generate %s: status %d", docType, resp.StatusCode())
	}
	if handle.ContentType == "" {
		handle.ContentType = "application/pdf"
	}
	return handle, nil
}
