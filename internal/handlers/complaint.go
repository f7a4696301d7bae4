package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awaazhq/awaaz-api/internal/dto"
	apierrors "github.com/awaazhq/awaaz-api/internal/errors"
	"github.com/awaazhq/awaaz-api/internal/middleware"
	"github.com/awaazhq/awaaz-api/internal/models"
	"github.com/awaazhq/awaaz-api/internal/query"
	"github.com/awaazhq/awaaz-api/internal/services"
)

// ComplaintHandler coordinates the complaint HTTP handlers.
type ComplaintHandler struct {
	complaintService *services.ComplaintService
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(complaintService *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
	}
}

// ListComplaints returns complaints matching the client-supplied filter,
// sort, projection, and pagination parameters.
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	complaints, q, err := h.complaintService.List(c.Request.URL.Query())
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	var payload interface{}
	if len(q.Fields) > 0 {
		projected := make([]map[string]interface{}, len(complaints))
		for i, complaint := range complaints {
			projected[i] = dto.ProjectComplaint(dto.ToComplaintDTO(complaint), q.Fields)
		}
		payload = projected
	} else {
		complaintDTOs := make([]dto.ComplaintDTO, len(complaints))
		for i, complaint := range complaints {
			complaintDTOs[i] = dto.ToComplaintDTO(complaint)
		}
		payload = complaintDTOs
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  apierrors.StatusSuccess,
		"results": len(complaints),
		"data":    gin.H{"complaints": payload},
	})
}

// GetComplaint returns one complaint with owner, assignee, and comment
// authors populated.
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	complaint, err := h.complaintService.Get(id)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondComplaint(c, http.StatusOK, complaint)
}

// CreateComplaint files a new complaint owned by the caller.
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateComplaintRequest struct {
		Title       string   `json:"title" binding:"required,min=5,max=100"`
		Description string   `json:"description" binding:"required,min=10"`
		Category    string   `json:"category" binding:"required"`
		Location    string   `json:"location" binding:"required"`
		Images      []string `json:"images"`
		Priority    string   `json:"priority"`
	}

	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	complaint, err := h.complaintService.Create(identity, services.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Images:      req.Images,
		Priority:    req.Priority,
	})
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondComplaint(c, http.StatusCreated, complaint)
}

// UpdateComplaint edits complaint fields. Owner or admin only.
func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateComplaintRequest struct {
		Title       *string   `json:"title" binding:"omitempty,min=5,max=100"`
		Description *string   `json:"description" binding:"omitempty,min=10"`
		Category    *string   `json:"category"`
		Location    *string   `json:"location"`
		Images      *[]string `json:"images"`
		Priority    *string   `json:"priority"`
	}

	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	complaint, err := h.complaintService.Update(identity, id, services.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Images:      req.Images,
		Priority:    req.Priority,
	})
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondComplaint(c, http.StatusOK, complaint)
}

// DeleteComplaint removes a complaint. Owner or admin only.
func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.complaintService.Delete(identity, id); err != nil {
		respondComplaintError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddComment appends a comment to a complaint.
func (h *ComplaintHandler) AddComment(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type AddCommentRequest struct {
		Comment string `json:"comment"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	complaint, err := h.complaintService.Comment(identity, id, req.Comment)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondComplaint(c, http.StatusOK, complaint)
}

// VoteComplaint toggles the caller's vote on a complaint.
func (h *ComplaintHandler) VoteComplaint(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	complaint, voted, err := h.complaintService.Vote(identity, id)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": apierrors.StatusSuccess,
		"data": gin.H{
			"complaint": dto.ToComplaintDTO(*complaint),
			"voted":     voted,
		},
	})
}

// AssignComplaint sets an assignee and forces the status to in-progress.
// Admin only.
func (h *ComplaintHandler) AssignComplaint(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type AssignRequest struct {
		AssignedTo uint64 `json:"assignedTo" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Please provide a user ID to assign the complaint")
		return
	}

	complaint, err := h.complaintService.Assign(id, req.AssignedTo)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondComplaint(c, http.StatusOK, complaint)
}

// UpdateComplaintStatus sets the complaint status. Admin only.
func (h *ComplaintHandler) UpdateComplaintStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type StatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Please provide a valid status")
		return
	}

	complaint, err := h.complaintService.UpdateStatus(id, models.ComplaintStatus(req.Status))
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondComplaint(c, http.StatusOK, complaint)
}

func respondComplaint(c *gin.Context, code int, complaint *models.Complaint) {
	c.JSON(code, gin.H{
		"status": apierrors.StatusSuccess,
		"data":   gin.H{"complaint": dto.ToComplaintDTO(*complaint)},
	})
}

func respondComplaintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, query.ErrUnknownField),
		errors.Is(err, query.ErrUnknownOperator),
		errors.Is(err, query.ErrBadValue):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrComplaintNotFound):
		apierrors.NotFound(c, "No complaint found with that ID")
	case errors.Is(err, services.ErrNotAllowed):
		apierrors.Forbidden(c, "You are not authorized to modify this complaint")
	case errors.Is(err, services.ErrEmptyComment):
		apierrors.BadRequest(c, "Comment cannot be empty")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, "Please provide a valid status")
	case errors.Is(err, services.ErrInvalidCategory):
		apierrors.BadRequest(c, "Please select a valid category")
	case errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, "Please select a valid priority")
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequest(c, "Assignee user does not exist")
	default:
		apierrors.Internal(c, err)
	}
}
