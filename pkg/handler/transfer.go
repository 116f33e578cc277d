package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spv_captable_back/models"
)

func (h *Handler) CreateTransfer(c *gin.Context) {
	var input models.CreateTransferInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.service.Transfer.Create(requestMeta(c), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func (h *Handler) GetTransfer(c *gin.Context) {
	transfer, err := h.service.Transfer.Get(c.Param("id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) GetTransferDocuments(c *gin.Context) {
	documents, err := h.service.Transfer.Documents(c.Param("id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"documents": documents,
	})
}

func (h *Handler) GetTransferHistory(c *gin.Context) {
	history, err := h.service.Transfer.History(c.Param("id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"history": history,
	})
}

func (h *Handler) ConfirmAsRequester(c *gin.Context) {
	var input models.ConfirmTransferInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.service.Transfer.ConfirmAsRequester(requestMeta(c), c.Param("id"), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) ConfirmAsRecipient(c *gin.Context) {
	var input models.ConfirmTransferInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.service.Transfer.ConfirmAsRecipient(requestMeta(c), c.Param("id"), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) DeclineAsRecipient(c *gin.Context) {
	var input models.DeclineTransferInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.service.Transfer.DeclineAsRecipient(requestMeta(c), c.Param("id"), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) ApproveTransfer(c *gin.Context) {
	var input models.ApproveTransferInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.service.Transfer.Approve(requestMeta(c), c.Param("id"), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) RejectTransfer(c *gin.Context) {
	var input models.RejectTransferInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.service.Transfer.Reject(requestMeta(c), c.Param("id"), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) CancelTransfer(c *gin.Context) {
	transfer, err := h.service.Transfer.Cancel(requestMeta(c), c.Param("id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) CompleteTransfer(c *gin.Context) {
	transfer, err := h.service.Transfer.Complete(requestMeta(c), c.Param("id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *Handler) ResubmitTransfer(c *gin.Context) {
	var input models.ResubmitTransferInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.service.Transfer.Resubmit(requestMeta(c), c.Param("id"), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}
