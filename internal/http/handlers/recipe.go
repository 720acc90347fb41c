package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/http/response"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
	"github.com/verdantstack/farmops-backend/internal/services"
)

type RecipeHandler struct {
	log          *logger.Logger
	recipes      services.RecipeService
	applications services.ApplicationService
	masters      repos.RecipeMasterRepo
}

func NewRecipeHandler(
	log *logger.Logger,
	recipes services.RecipeService,
	applications services.ApplicationService,
	masters repos.RecipeMasterRepo,
) *RecipeHandler {
	return &RecipeHandler{
		log:          log.With("handler", "RecipeHandler"),
		recipes:      recipes,
		applications: applications,
		masters:      masters,
	}
}

type createRecipeRequest struct {
	Name     string `json:"name" binding:"required"`
	CropType string `json:"crop_type" binding:"required"`
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	master := &types.RecipeMaster{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		CropType: strings.TrimSpace(req.CropType),
	}
	created, err := h.masters.Create(c.Request.Context(), nil, master)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	master, err := h.masters.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if master == nil {
		response.RespondError(c, http.StatusNotFound, "recipe_not_found", nil)
		return
	}
	response.RespondOK(c, master)
}

func (h *RecipeHandler) AddVersion(c *gin.Context) {
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var in services.VersionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	version, err := h.recipes.AddVersion(c.Request.Context(), recipeID, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, version)
}

func (h *RecipeHandler) ListVersions(c *gin.Context) {
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	versions, err := h.recipes.ListVersions(c.Request.Context(), recipeID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"versions": versions, "count": len(versions)})
}

func (h *RecipeHandler) ActiveVersion(c *gin.Context) {
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	at := time.Now().UTC()
	if raw := strings.TrimSpace(c.Query("at")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
			return
		}
		at = parsed
	}
	version, err := h.recipes.ActiveVersion(c.Request.Context(), recipeID, at)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"at": at, "version": version})
}

func (h *RecipeHandler) LatestVersion(c *gin.Context) {
	recipeID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	version, err := h.recipes.LatestVersion(c.Request.Context(), recipeID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"version": version})
}

func (h *RecipeHandler) UpdateVersion(c *gin.Context) {
	versionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var in services.VersionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	version, err := h.recipes.UpdateVersion(c.Request.Context(), versionID, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, version)
}

func (h *RecipeHandler) DeleteVersion(c *gin.Context) {
	versionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteVersion(c.Request.Context(), versionID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type applyRecipeRequest struct {
	RecipeVersionID uuid.UUID `json:"recipe_version_id" binding:"required"`
	AppliedBy       string    `json:"applied_by"`
}

func (h *RecipeHandler) ApplyRecipe(c *gin.Context) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req applyRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	application, err := h.applications.Apply(c.Request.Context(), containerID, req.RecipeVersionID, req.AppliedBy)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, application)
}

func (h *RecipeHandler) LatestApplication(c *gin.Context) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	application, err := h.applications.LatestForContainer(c.Request.Context(), containerID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"application": application})
}

func (h *RecipeHandler) ListApplications(c *gin.Context) {
	containerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	applications, err := h.applications.ListForContainer(c.Request.Context(), containerID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"applications": applications, "count": len(applications)})
}

type syncStatusRequest struct {
	SyncStatus types.SyncStatus `json:"sync_status" binding:"required"`
}

func (h *RecipeHandler) UpdateSyncStatus(c *gin.Context) {
	applicationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req syncStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	application, err := h.applications.MarkSync(c.Request.Context(), applicationID, req.SyncStatus)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, application)
}
