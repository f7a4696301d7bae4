package repository

import (
	"errors"

	"github.com/awaazhq/awaaz-api/internal/models"
	"github.com/awaazhq/awaaz-api/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormComplaintRepository is a GORM implementation of ComplaintRepository
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// Create creates a new complaint
func (r *GormComplaintRepository) Create(complaint *models.Complaint) error {
	return r.db.Create(complaint).Error
}

// FindByID finds a complaint by ID with optional preloading
func (r *GormComplaintRepository) FindByID(id uint64, preload ...string) (*models.Complaint, error) {
	var complaint models.Complaint
	q := r.db

	for _, p := range preload {
		q = q.Preload(p)
	}

	if err := q.First(&complaint, id).Error; err != nil {
		return nil, err
	}

	return &complaint, nil
}

// List retrieves complaints matching a compiled query. The owning user is
// preloaded for the public projection.
func (r *GormComplaintRepository) List(q query.Query) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.
		Model(&models.Complaint{}).
		Scopes(q.Scope()).
		Preload("User").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

// Update applies the given column changes to a complaint
func (r *GormComplaintRepository) Update(id uint64, changes map[string]interface{}) error {
	result := r.db.Model(&models.Complaint{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a complaint together with its votes and comments
func (r *GormComplaintRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("complaint_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Complaint{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ToggleVote flips userID's membership in the complaint's voter set. The
// whole toggle runs in one transaction and the counter moves by the same
// statement's row count, so votes always equals the voter-set size even
// under concurrent toggles.
func (r *GormComplaintRepository) ToggleVote(complaintID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		removed := tx.
			Where("complaint_id = ? AND user_id = ?", complaintID, userID).
			Delete(&models.Vote{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			return r.bumpVotes(tx, complaintID, -1)
		}

		added := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Vote{ComplaintID: complaintID, UserID: userID})
		if added.Error != nil {
			return added.Error
		}
		if added.RowsAffected == 0 {
			// Concurrent toggle already inserted the row; leave the counter alone
			return nil
		}

		return r.bumpVotes(tx, complaintID, 1)
	})
}

func (r *GormComplaintRepository) bumpVotes(tx *gorm.DB, complaintID uint64, delta int) error {
	result := tx.Model(&models.Complaint{}).
		Where("id = ?", complaintID).
		Update("votes", gorm.Expr("votes + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasVoted reports whether userID is in the complaint's voter set
func (r *GormComplaintRepository) HasVoted(complaintID, userID uint64) (bool, error) {
	var vote models.Vote
	err := r.db.
		Where("complaint_id = ? AND user_id = ?", complaintID, userID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddComment appends a comment to a complaint
func (r *GormComplaintRepository) AddComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// Assign sets the assignee and forces status to in-progress, whatever the
// prior status was.
func (r *GormComplaintRepository) Assign(complaintID, assigneeID uint64) error {
	return r.Update(complaintID, map[string]interface{}{
		"assigned_to_id": assigneeID,
		"status":         models.StatusInProgress,
	})
}

// UpdateStatus sets the complaint status
func (r *GormComplaintRepository) UpdateStatus(complaintID uint64, status models.ComplaintStatus) error {
	return r.Update(complaintID, map[string]interface{}{"status": status})
}
