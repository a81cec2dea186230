package repository

import (
	"fmt"

	"gorm.io/gorm"

	"safenest/internal/model"
)

// ClinicMessageRepository persists clinic-chat transcripts. Writes only
// arrive through the async persist worker.
type ClinicMessageRepository struct {
	db *gorm.DB
}

func NewClinicMessageRepository(db *gorm.DB) *ClinicMessageRepository {
	return &ClinicMessageRepository{db: db}
}

func (r *ClinicMessageRepository) Create(msg *model.ClinicMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("create clinic message failed: %w", err)
	}
	return nil
}

func (r *ClinicMessageRepository) ListBySessionID(sessionID string, limit int) ([]model.ClinicMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var messages []model.ClinicMessage
	if err := r.db.Where("session_id = ?", sessionID).Order("id ASC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list clinic messages failed: %w", err)
	}
	return messages, nil
}
