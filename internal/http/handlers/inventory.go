package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/http/response"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
	"github.com/verdantstack/farmops-backend/internal/services"
)

type InventoryHandler struct {
	log         *logger.Logger
	placement   services.PlacementService
	utilization services.UtilizationService
	containers  repos.ContainerRepo
}

func NewInventoryHandler(
	log *logger.Logger,
	placement services.PlacementService,
	utilization services.UtilizationService,
	containers repos.ContainerRepo,
) *InventoryHandler {
	return &InventoryHandler{
		log:         log.With("handler", "InventoryHandler"),
		placement:   placement,
		utilization: utilization,
		containers:  containers,
	}
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

type createContainerRequest struct {
	TenantID uuid.UUID           `json:"tenant_id" binding:"required"`
	Name     string              `json:"name" binding:"required"`
	Type     types.ContainerType `json:"type"`
	Notes    string              `json:"notes"`
}

func (h *InventoryHandler) CreateContainer(c *gin.Context) {
	var req createContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if req.Type == "" {
		req.Type = types.ContainerTypePhysical
	}
	container := &types.Container{
		ID:       uuid.New(),
		TenantID: req.TenantID,
		Name:     strings.TrimSpace(req.Name),
		Type:     req.Type,
		Notes:    req.Notes,
	}
	created, err := h.containers.Create(c.Request.Context(), nil, container)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

func (h *InventoryHandler) ListContainers(c *gin.Context) {
	tenantID, err := uuid.Parse(strings.TrimSpace(c.Query("tenant_id")))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_tenant_id", err)
		return
	}
	containers, err := h.containers.ListByTenant(c.Request.Context(), nil, tenantID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"containers": containers, "count": len(containers)})
}

func (h *InventoryHandler) GetContainer(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	container, err := h.containers.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if container == nil {
		response.RespondError(c, http.StatusNotFound, "container_not_found", nil)
		return
	}
	response.RespondOK(c, container)
}

type provisionRequest struct {
	RFIDTag       string          `json:"rfid_tag" binding:"required"`
	Capacity      int             `json:"capacity"`
	Location      *types.Location `json:"location"`
	ProvisionedBy string          `json:"provisioned_by"`
}

func (h *InventoryHandler) provision(c *gin.Context, kind types.OccupantKind) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req provisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	occ, err := h.placement.Provision(c.Request.Context(), services.ProvisionInput{
		ContainerID:   containerID,
		Kind:          kind,
		RFIDTag:       req.RFIDTag,
		Location:      req.Location,
		Capacity:      req.Capacity,
		ProvisionedBy: req.ProvisionedBy,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, occ)
}

func (h *InventoryHandler) ProvisionTray(c *gin.Context) {
	h.provision(c, types.OccupantKindTray)
}

func (h *InventoryHandler) ProvisionPanel(c *gin.Context) {
	h.provision(c, types.OccupantKindPanel)
}

type stationView struct {
	Layout  *services.StationLayout  `json:"layout"`
	Summary *services.StationSummary `json:"summary"`
}

func (h *InventoryHandler) station(c *gin.Context, kind types.OccupantKind) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	layout, err := h.placement.Layout(ctx, containerID, kind)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	summary, err := h.utilization.Summary(ctx, containerID, kind)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, stationView{Layout: layout, Summary: summary})
}

func (h *InventoryHandler) NurseryStation(c *gin.Context) {
	h.station(c, types.OccupantKindTray)
}

func (h *InventoryHandler) CultivationArea(c *gin.Context) {
	h.station(c, types.OccupantKindPanel)
}

func (h *InventoryHandler) availableSlots(c *gin.Context, kind types.OccupantKind) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	slots, err := h.placement.AvailableSlots(c.Request.Context(), containerID, kind)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"available_slots": slots, "count": len(slots)})
}

func (h *InventoryHandler) NurseryAvailableSlots(c *gin.Context) {
	h.availableSlots(c, types.OccupantKindTray)
}

func (h *InventoryHandler) CultivationAvailableSlots(c *gin.Context) {
	h.availableSlots(c, types.OccupantKindPanel)
}

type moveRequest struct {
	Location *types.Location `json:"location"`
	MovedBy  string          `json:"moved_by"`
}

func (h *InventoryHandler) move(c *gin.Context, kind types.OccupantKind) {
	occupantID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if req.Location == nil {
		response.RespondError(c, http.StatusBadRequest, "missing_location", nil)
		return
	}
	occ, err := h.placement.Move(c.Request.Context(), kind, occupantID, *req.Location, req.MovedBy)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, occ)
}

func (h *InventoryHandler) MoveTray(c *gin.Context) {
	h.move(c, types.OccupantKindTray)
}

func (h *InventoryHandler) MovePanel(c *gin.Context) {
	h.move(c, types.OccupantKindPanel)
}

type actorRequest struct {
	PerformedBy string `json:"performed_by"`
}

func (h *InventoryHandler) release(c *gin.Context, kind types.OccupantKind) {
	occupantID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req actorRequest
	_ = c.ShouldBindJSON(&req)
	occ, err := h.placement.Release(c.Request.Context(), kind, occupantID, req.PerformedBy)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, occ)
}

func (h *InventoryHandler) ReleaseTray(c *gin.Context) {
	h.release(c, types.OccupantKindTray)
}

func (h *InventoryHandler) ReleasePanel(c *gin.Context) {
	h.release(c, types.OccupantKindPanel)
}

func (h *InventoryHandler) dispose(c *gin.Context, kind types.OccupantKind) {
	occupantID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req actorRequest
	_ = c.ShouldBindJSON(&req)
	occ, err := h.placement.Dispose(c.Request.Context(), kind, occupantID, req.PerformedBy)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, occ)
}

func (h *InventoryHandler) DisposeTray(c *gin.Context) {
	h.dispose(c, types.OccupantKindTray)
}

func (h *InventoryHandler) DisposePanel(c *gin.Context) {
	h.dispose(c, types.OccupantKindPanel)
}
