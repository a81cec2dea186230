package repository

import (
	"sync"
	"time"

	"safenest/internal/model"
)

// MemoryCommentStore backs the community board when MySQL is disabled.
// Comments live for the lifetime of the process, matching the original app's
// locally-cached board.
type MemoryCommentStore struct {
	mu       sync.Mutex
	comments []model.Comment
	nextID   uint
}

func NewMemoryCommentStore() *MemoryCommentStore {
	return &MemoryCommentStore{nextID: 1}
}

func (s *MemoryCommentStore) Create(comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.ID = s.nextID
	s.nextID++
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *MemoryCommentStore) List() ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Comment(nil), s.comments...), nil
}

func (s *MemoryCommentStore) Get(id uint) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, comment := range s.comments {
		if comment.ID == id {
			c := comment
			return &c, nil
		}
	}
	return nil, nil
}

func (s *MemoryCommentStore) Delete(ids []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doomed := make(map[uint]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	kept := s.comments[:0]
	for _, comment := range s.comments {
		if !doomed[comment.ID] {
			kept = append(kept, comment)
		}
	}
	s.comments = kept
	return nil
}

func (s *MemoryCommentStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = nil
	return nil
}
