package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/awaazhq/awaaz-api/internal/dto"
	apierrors "github.com/awaazhq/awaaz-api/internal/errors"
	"github.com/awaazhq/awaaz-api/internal/middleware"
	"github.com/awaazhq/awaaz-api/internal/services"
	"github.com/awaazhq/awaaz-api/internal/utils"
)

// UserHandler coordinates the user management HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateProfile edits the caller's own profile fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateProfileRequest struct {
		Username       *string `json:"username" binding:"omitempty,min=3,max=50"`
		ProfilePicture *string `json:"profilePicture"`
		PhoneNumber    *string `json:"phoneNumber"`
		Address        *string `json:"address"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(identity.ID, services.UpdateProfileInput{
		Username:       req.Username,
		ProfilePicture: req.ProfilePicture,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": apierrors.StatusSuccess,
		"data":   gin.H{"user": dto.ToUserDTO(*user)},
	})
}

// ListUsers returns all users, paginated. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.List(params)
	if err != nil {
		respondUserError(c, err)
		return
	}

	userDTOs := make([]dto.UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  apierrors.StatusSuccess,
		"results": len(userDTOs),
		"data": gin.H{
			"users": userDTOs,
			"pagination": utils.PaginationResponse{
				Page:  params.Page,
				Limit: params.Limit,
				Total: total,
			},
		},
	})
}

// GetUser returns a single user by ID. Admin only.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": apierrors.StatusSuccess,
		"data":   gin.H{"user": dto.ToUserDTO(*user)},
	})
}

// MakeAdmin promotes a user to the admin role. Admin only.
func (h *UserHandler) MakeAdmin(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.MakeAdmin(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": apierrors.StatusSuccess,
		"data":   gin.H{"user": dto.ToUserDTO(*user)},
	})
}

// DeleteUser removes a user. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		respondUserError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "No user found with that ID")
	default:
		apierrors.Internal(c, err)
	}
}
