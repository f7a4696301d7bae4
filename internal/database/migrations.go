package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the indexes the complaint list queries depend on.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Complaint filter and sort columns
		{"complaints", "idx_complaints_user_id_status", "user_id, status"},
		{"complaints", "idx_complaints_category", "category"},
		{"complaints", "idx_complaints_location", "location"},
		{"complaints", "idx_complaints_votes", "votes"},
		{"complaints", "idx_complaints_created_at", "created_at"},

		// Voter-set lookups
		{"complaint_votes", "idx_complaint_votes_user_id", "user_id"},

		// Comment listing per complaint
		{"complaint_comments", "idx_complaint_comments_complaint_id", "complaint_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
