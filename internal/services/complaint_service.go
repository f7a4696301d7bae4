package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/awaazhq/awaaz-api/internal/models"
	"github.com/awaazhq/awaaz-api/internal/query"
	"github.com/awaazhq/awaaz-api/internal/repository"
)

var (
	ErrComplaintNotFound = errors.New("no complaint found with that ID")
	ErrNotAllowed        = errors.New("you are not authorized to modify this complaint")
	ErrEmptyComment      = errors.New("comment cannot be empty")
	ErrInvalidStatus     = errors.New("please provide a valid status")
	ErrInvalidCategory   = errors.New("please select a valid category")
	ErrInvalidPriority   = errors.New("please select a valid priority")
	ErrAssigneeNotFound  = errors.New("assignee user does not exist")
)

// complaintPreloads is the populated representation every read and mutation
// responds with.
var complaintPreloads = []string{"User", "AssignedTo", "Comments", "Comments.User"}

// ComplaintService enforces the complaint lifecycle and its ownership rules.
type ComplaintService struct {
	complaintRepo repository.ComplaintRepository
	userRepo      repository.UserRepository
}

// NewComplaintService creates a new ComplaintService.
func NewComplaintService(complaintRepo repository.ComplaintRepository, userRepo repository.UserRepository) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
	}
}

// List compiles the raw query parameters and returns matching complaints.
// Compilation errors come back unwrapped so the handler can map them to a
// 400 response.
func (s *ComplaintService) List(values url.Values) ([]models.Complaint, query.Query, error) {
	q, err := query.Parse(values)
	if err != nil {
		return nil, query.Query{}, err
	}

	complaints, err := s.complaintRepo.List(q)
	if err != nil {
		return nil, query.Query{}, fmt.Errorf("failed to list complaints: %w", err)
	}

	return complaints, q, nil
}

// Get retrieves a complaint with owner, assignee, and comment authors
// populated.
func (s *ComplaintService) Get(id uint64) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.FindByID(id, complaintPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to find complaint: %w", err)
	}
	return complaint, nil
}

// CreateInput represents a new complaint submission.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Images      []string
	Priority    string
}

// Create stores a new complaint owned by the caller. Status always starts
// at pending with zero votes.
func (s *ComplaintService) Create(identity models.Identity, input CreateInput) (*models.Complaint, error) {
	if !models.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.Priority(input.Priority)
		if priority != models.PriorityLow && priority != models.PriorityMedium && priority != models.PriorityHigh {
			return nil, ErrInvalidPriority
		}
	}

	complaint := &models.Complaint{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Images:      models.ImageList(input.Images),
		Status:      models.StatusPending,
		Priority:    priority,
		UserID:      identity.ID,
	}

	if err := s.complaintRepo.Create(complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	return s.Get(complaint.ID)
}

// UpdateInput holds the editable complaint fields. Nil means the field was
// not sent. Status, owner, and votes are never editable through Update.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Images      *[]string
	Priority    *string
}

// Update edits complaint fields. Only the owner or an admin may update.
func (s *ComplaintService) Update(identity models.Identity, id uint64, input UpdateInput) (*models.Complaint, error) {
	complaint, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !identity.CanModify(complaint.UserID) {
		return nil, ErrNotAllowed
	}

	changes := map[string]interface{}{}
	if input.Title != nil {
		changes["title"] = *input.Title
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			return nil, ErrInvalidCategory
		}
		changes["category"] = *input.Category
	}
	if input.Location != nil {
		changes["location"] = *input.Location
	}
	if input.Images != nil {
		changes["images"] = models.ImageList(*input.Images)
	}
	if input.Priority != nil {
		p := models.Priority(*input.Priority)
		if p != models.PriorityLow && p != models.PriorityMedium && p != models.PriorityHigh {
			return nil, ErrInvalidPriority
		}
		changes["priority"] = p
	}

	if len(changes) > 0 {
		if err := s.complaintRepo.Update(id, changes); err != nil {
			return nil, fmt.Errorf("failed to update complaint: %w", err)
		}
	}

	return s.Get(id)
}

// Delete removes a complaint. Only the owner or an admin may delete.
func (s *ComplaintService) Delete(identity models.Identity, id uint64) error {
	complaint, err := s.Get(id)
	if err != nil {
		return err
	}

	if !identity.CanModify(complaint.UserID) {
		return ErrNotAllowed
	}

	if err := s.complaintRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	return nil
}

// Comment appends a comment by the caller and returns the updated
// complaint.
func (s *ComplaintService) Comment(identity models.Identity, id uint64, text string) (*models.Complaint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ComplaintID: id,
		UserID:      identity.ID,
		Comment:     text,
	}
	if err := s.complaintRepo.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.Get(id)
}

// Vote toggles the caller's vote on a complaint. It returns the updated
// complaint together with the caller's post-toggle voted state.
func (s *ComplaintService) Vote(identity models.Identity, id uint64) (*models.Complaint, bool, error) {
	if _, err := s.Get(id); err != nil {
		return nil, false, err
	}

	if err := s.complaintRepo.ToggleVote(id, identity.ID); err != nil {
		return nil, false, fmt.Errorf("failed to toggle vote: %w", err)
	}

	voted, err := s.complaintRepo.HasVoted(id, identity.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check vote: %w", err)
	}

	complaint, err := s.Get(id)
	if err != nil {
		return nil, false, err
	}
	return complaint, voted, nil
}

// Assign sets an assignee and forces the status to in-progress, regardless
// of the prior status.
func (s *ComplaintService) Assign(id, assigneeID uint64) (*models.Complaint, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if err := s.complaintRepo.Assign(id, assigneeID); err != nil {
		return nil, fmt.Errorf("failed to assign complaint: %w", err)
	}

	return s.Get(id)
}

// UpdateStatus sets the complaint status. Invalid values leave the stored
// status untouched.
func (s *ComplaintService) UpdateStatus(id uint64, status models.ComplaintStatus) (*models.Complaint, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	if err := s.complaintRepo.UpdateStatus(id, status); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return s.Get(id)
}
