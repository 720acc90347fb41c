package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/http/response"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
	"github.com/verdantstack/farmops-backend/internal/services"
)

type SnapshotHandler struct {
	log       *logger.Logger
	snapshots services.SnapshotService
}

func NewSnapshotHandler(log *logger.Logger, snapshots services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		log:       log.With("handler", "SnapshotHandler"),
		snapshots: snapshots,
	}
}

// parseDateQuery accepts RFC3339 timestamps or bare YYYY-MM-DD dates.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	response.RespondError(c, http.StatusBadRequest, "invalid_date", nil)
	return nil, false
}

func (h *SnapshotHandler) window(c *gin.Context, occupantParam string) (services.SnapshotWindow, bool) {
	var window services.SnapshotWindow

	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return window, false
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return window, false
	}
	window.Start = start
	window.End = end

	if raw := strings.TrimSpace(c.Query(occupantParam)); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
			return window, false
		}
		window.OccupantID = &id
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return window, false
		}
		window.Limit = n
	}
	return window, true
}

func (h *SnapshotHandler) ListTraySnapshots(c *gin.Context) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	window, ok := h.window(c, "tray_id")
	if !ok {
		return
	}
	snaps, err := h.snapshots.QueryTrays(c.Request.Context(), containerID, window)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"snapshots": snaps, "count": len(snaps)})
}

func (h *SnapshotHandler) ListPanelSnapshots(c *gin.Context) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	window, ok := h.window(c, "panel_id")
	if !ok {
		return
	}
	snaps, err := h.snapshots.QueryPanels(c.Request.Context(), containerID, window)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"snapshots": snaps, "count": len(snaps)})
}

func (h *SnapshotHandler) record(c *gin.Context, kind types.OccupantKind) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	recorded, err := h.snapshots.RecordContainer(c.Request.Context(), containerID, kind)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"recorded": recorded})
}

func (h *SnapshotHandler) RecordTraySnapshots(c *gin.Context) {
	h.record(c, types.OccupantKindTray)
}

func (h *SnapshotHandler) RecordPanelSnapshots(c *gin.Context) {
	h.record(c, types.OccupantKindPanel)
}
