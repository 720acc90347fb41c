package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verdantstack/farmops-backend/internal/http/response"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
	"github.com/verdantstack/farmops-backend/internal/services"
)

type RFIDHandler struct {
	log  *logger.Logger
	rfid services.RFIDService
}

func NewRFIDHandler(log *logger.Logger, rfid services.RFIDService) *RFIDHandler {
	return &RFIDHandler{
		log:  log.With("handler", "RFIDHandler"),
		rfid: rfid,
	}
}

type validateRFIDRequest struct {
	RFIDTag string `json:"rfid_tag" binding:"required"`
	// Type is the intended occupant kind ("tray" or "panel"). Validation
	// is kind-agnostic; the field is accepted for scanner clients that
	// always send it.
	Type string `json:"type"`
}

func (h *RFIDHandler) Validate(c *gin.Context) {
	var req validateRFIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	result, err := h.rfid.Validate(c.Request.Context(), req.RFIDTag)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (h *RFIDHandler) Availability(c *gin.Context) {
	tag := services.NormalizeRFIDTag(c.Param("tag"))
	ctx := c.Request.Context()

	result, err := h.rfid.Validate(ctx, tag)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	payload := gin.H{
		"rfid_tag":     tag,
		"is_available": result.IsValid,
	}
	if !result.IsUnique {
		usage, err := h.rfid.FindCurrentUsage(ctx, nil, tag)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		payload["current_usage"] = usage
	}
	response.RespondOK(c, payload)
}
