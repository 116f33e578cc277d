package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spv_captable_back/models"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

func (h *Handler) GetCapTable(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rows, err := h.service.CapTable.GetCapTable(vehicleID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"vehicle_id": vehicleID,
		"cap_table":  rows,
	})
}

func (h *Handler) GetOwnershipChain(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	investorID, ok := pathID(c, "investorId")
	if !ok {
		return
	}

	entries, err := h.service.CapTable.GetOwnershipChain(investorID, vehicleID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"vehicle_id":  vehicleID,
		"investor_id": investorID,
		"entries":     entries,
	})
}

func (h *Handler) RecordInvestment(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.RecordInvestmentInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.CapTable.RecordInvestment(requestMeta(c), vehicleID, input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) RecordAdjustment(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.RecordAdjustmentInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.CapTable.RecordAdjustment(requestMeta(c), vehicleID, input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) GetInvestor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	investor, err := h.service.Directory.GetInvestor(id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, investor)
}

func (h *Handler) GetVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.service.Directory.GetVehicle(id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}
