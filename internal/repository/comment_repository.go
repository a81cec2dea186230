package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"safenest/internal/model"
)

// CommentRepository is the MySQL-backed comment arena.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

// List returns all comments in creation order.
func (r *CommentRepository) List() ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.Order("id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Get(id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment failed: %w", err)
	}
	return &comment, nil
}

func (r *CommentRepository) Delete(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Where("id IN ?", ids).Delete(&model.Comment{}).Error; err != nil {
		return fmt.Errorf("delete comments failed: %w", err)
	}
	return nil
}

func (r *CommentRepository) DeleteAll() error {
	if err := r.db.Where("1 = 1").Delete(&model.Comment{}).Error; err != nil {
		return fmt.Errorf("clear comments failed: %w", err)
	}
	return nil
}
