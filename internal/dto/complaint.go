package dto

import (
	"time"

	"github.com/awaazhq/awaaz-api/internal/models"
)

// CommentDTO represents a complaint comment in API responses
type CommentDTO struct {
	ID        uint64         `json:"id"`
	Comment   string         `json:"comment"`
	User      *PublicUserDTO `json:"user,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ComplaintDTO represents a complaint in API responses
type ComplaintDTO struct {
	ID          uint64                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Location    string                 `json:"location"`
	Images      []string               `json:"images"`
	Status      models.ComplaintStatus `json:"status"`
	Priority    models.Priority        `json:"priority"`
	Votes       int64                  `json:"votes"`
	User        *PublicUserDTO         `json:"user,omitempty"`
	AssignedTo  *PublicUserDTO         `json:"assignedTo,omitempty"`
	Comments    []CommentDTO           `json:"comments,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// ToComplaintDTO converts a Complaint model to ComplaintDTO. Related users
// are embedded only if they were preloaded.
func ToComplaintDTO(complaint models.Complaint) ComplaintDTO {
	d := ComplaintDTO{
		ID:          complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    complaint.Category,
		Location:    complaint.Location,
		Images:      complaint.Images,
		Status:      complaint.Status,
		Priority:    complaint.Priority,
		Votes:       complaint.Votes,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}

	if complaint.User.ID != 0 {
		user := ToPublicUserDTO(complaint.User)
		d.User = &user
	}

	if complaint.AssignedTo != nil && complaint.AssignedTo.ID != 0 {
		assignee := ToPublicUserDTO(*complaint.AssignedTo)
		d.AssignedTo = &assignee
	}

	if len(complaint.Comments) > 0 {
		d.Comments = make([]CommentDTO, len(complaint.Comments))
		for i, comment := range complaint.Comments {
			item := CommentDTO{
				ID:        comment.ID,
				Comment:   comment.Comment,
				CreatedAt: comment.CreatedAt,
			}
			if comment.User.ID != 0 {
				author := ToPublicUserDTO(comment.User)
				item.User = &author
			}
			d.Comments[i] = item
		}
	}

	return d
}

// ProjectComplaint reduces a complaint DTO to the requested field names.
// Field names have already been validated by the query compiler; anything
// unrecognized here is simply skipped.
func ProjectComplaint(d ComplaintDTO, fields []string) map[string]interface{} {
	out := map[string]interface{}{"id": d.ID}
	for _, field := range fields {
		switch field {
		case "title":
			out["title"] = d.Title
		case "description":
			out["description"] = d.Description
		case "category":
			out["category"] = d.Category
		case "location":
			out["location"] = d.Location
		case "images":
			out["images"] = d.Images
		case "status":
			out["status"] = d.Status
		case "priority":
			out["priority"] = d.Priority
		case "votes":
			out["votes"] = d.Votes
		case "user_id", "user":
			out["user"] = d.User
		case "assigned_to_id", "assignedTo":
			out["assignedTo"] = d.AssignedTo
		case "created_at", "createdAt":
			out["createdAt"] = d.CreatedAt
		case "updated_at", "updatedAt":
			out["updatedAt"] = d.UpdatedAt
		}
	}
	return out
}
