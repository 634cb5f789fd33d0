package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"earcare-app-server/internal/middleware"
	"earcare-app-server/internal/models"
	"earcare-app-server/internal/treatment"
	"earcare-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TreatmentHandler handles treatment related requests. All authorization
// decisions live in the treatment service; the handler only shuttles the
// caller identity and the payload.
type TreatmentHandler struct {
	Service *treatment.Service
}

// NewTreatmentHandler creates a new TreatmentHandler.
func NewTreatmentHandler(db *gorm.DB) *TreatmentHandler {
	return &TreatmentHandler{Service: treatment.NewService(db)}
}

// callerIdentity assembles the service-facing identity from the token claims
// that AuthMiddleware stored in the request context.
func callerIdentity(c *gin.Context) (treatment.Identity, bool) {
	userID, idOK := middleware.GetUserIDFromContext(c)
	role, roleOK := middleware.GetUserRoleFromContext(c)
	if !idOK || !roleOK {
		return treatment.Identity{}, false
	}
	return treatment.Identity{UserID: userID, Roles: []models.Role{role}}, true
}

// ListTreatments handles the paginated, filtered treatment listing.
func (h *TreatmentHandler) ListTreatments(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var filter treatment.ListFilter

	if v := c.Query("status"); v != "" {
		status := models.TreatmentStatus(v)
		if !models.ValidTreatmentStatus(status) {
			utils.BadRequest(c, "Invalid status filter, expected pending, completed or cancelled")
			return
		}
		filter.Status = &status
	}
	if v := c.Query("dateFrom"); v != "" {
		from, err := time.Parse(time.DateOnly, v)
		if err != nil {
			utils.BadRequest(c, "Invalid dateFrom, expected YYYY-MM-DD")
			return
		}
		filter.DateFrom = &from
	}
	if v := c.Query("dateTo"); v != "" {
		to, err := time.Parse(time.DateOnly, v)
		if err != nil {
			utils.BadRequest(c, "Invalid dateTo, expected YYYY-MM-DD")
			return
		}
		filter.DateTo = &to
	}
	filter.MineOnly = c.Query("mineOnly") == "true"
	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			utils.BadRequest(c, "Invalid page number")
			return
		}
		filter.Page = page
	}

	treatments, pagination, err := h.Service.List(caller, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sanitized := make([]models.TreatmentSanitized, len(treatments))
	for i := range treatments {
		sanitized[i] = treatments[i].Sanitize()
	}

	utils.SuccessPaginated(c, "Treatments fetched successfully", sanitized, pagination)
}

// CreateTreatment handles creating a new treatment (doctor only).
func (h *TreatmentHandler) CreateTreatment(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var in treatment.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	created, err := h.Service.Create(caller, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Created(c, "Treatment created successfully", created.Sanitize())
}

// GetTreatmentByID handles fetching a single treatment within the caller's scope.
func (h *TreatmentHandler) GetTreatmentByID(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	t, err := h.Service.Get(caller, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, "Treatment fetched successfully", t.Sanitize())
}

// UpdateTreatment handles a partial update of a treatment (doctor only).
func (h *TreatmentHandler) UpdateTreatment(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var in treatment.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	updated, err := h.Service.Update(caller, c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, "Treatment updated successfully", updated.Sanitize())
}

// DeleteTreatment handles soft-deleting a treatment (doctor only).
func (h *TreatmentHandler) DeleteTreatment(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.Service.Delete(caller, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, "Treatment deleted successfully", nil)
}

// GetStatistics handles the aggregate treatment counts (doctor only).
func (h *TreatmentHandler) GetStatistics(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	stats, err := h.Service.Statistics(caller, c.Query("mineOnly") == "true")
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, "Statistics fetched successfully", stats)
}

// GetPatientList handles the patient directory for the treatment form (doctor only).
func (h *TreatmentHandler) GetPatientList(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patients, err := h.Service.ListPatients(caller)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Success(c, "Patients fetched successfully", patients)
}

// respondError maps service errors onto the response envelope. Store errors
// are logged with their cause and answered with a generic message.
func (h *TreatmentHandler) respondError(c *gin.Context, err error) {
	var vErr *treatment.ValidationError
	var refErr *treatment.ReferenceError

	switch {
	case errors.Is(err, treatment.ErrForbidden):
		utils.Forbidden(c, "Only doctors can perform this action")
	case errors.Is(err, treatment.ErrNotFound):
		utils.NotFound(c, "Treatment not found")
	case errors.As(err, &vErr):
		utils.ValidationFailed(c, "Validation failed", vErr.Fields)
	case errors.As(err, &refErr):
		utils.UnprocessableEntity(c, refErr.Message)
	default:
		log.Printf("treatment handler: %v", err)
		utils.InternalServerError(c, "An unexpected error occurred")
	}
}
