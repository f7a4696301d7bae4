package repository

import (
	"github.com/awaazhq/awaaz-api/internal/models"
	"github.com/awaazhq/awaaz-api/internal/query"
	"github.com/awaazhq/awaaz-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with pagination
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// UpdateRole sets a user's role
	UpdateRole(id uint64, role models.Role) error

	// Delete soft deletes a user
	Delete(id uint64) error
}

// ComplaintRepository defines the interface for complaint data access
type ComplaintRepository interface {
	// Create creates a new complaint
	Create(complaint *models.Complaint) error

	// FindByID finds a complaint by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Complaint, error)

	// List retrieves complaints matching a compiled query, with the owning
	// user preloaded
	List(q query.Query) ([]models.Complaint, error)

	// Update applies the given column changes to a complaint
	Update(id uint64, changes map[string]interface{}) error

	// Delete removes a complaint together with its votes and comments
	Delete(id uint64) error

	// ToggleVote atomically adds or removes userID from the complaint's
	// voter set and adjusts the vote counter to match
	ToggleVote(complaintID, userID uint64) error

	// HasVoted reports whether userID is in the complaint's voter set
	HasVoted(complaintID, userID uint64) (bool, error)

	// AddComment appends a comment to a complaint
	AddComment(comment *models.Comment) error

	// Assign sets the assignee and forces status to in-progress
	Assign(complaintID, assigneeID uint64) error

	// UpdateStatus sets the complaint status
	UpdateStatus(complaintID uint64, status models.ComplaintStatus) error
}
