package app

import (
	"strings"

	"safenest/internal/model"
)

// CommentStore is the flat comment arena. Both the gorm-backed store and the
// in-memory fallback implement it.
type CommentStore interface {
	Create(comment *model.Comment) error
	List() ([]model.Comment, error)
	Get(id uint) (*model.Comment, error)
	Delete(ids []uint) error
	DeleteAll() error
}

// CommunityService runs the experience board: a flat store of comments
// linked by parent ID, threaded only at read time.
type CommunityService struct {
	store CommentStore
}

func NewCommunityService(store CommentStore) *CommunityService {
	return &CommunityService{store: store}
}

type AddCommentInput struct {
	Author   string
	Text     string
	ParentID uint
}

func (s *CommunityService) AddComment(input AddCommentInput) (*model.Comment, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = "Anonymous"
	}
	if input.ParentID != 0 {
		parent, err := s.store.Get(input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentCommentNotFound
		}
	}

	comment := &model.Comment{ParentID: input.ParentID, Author: author, Text: text}
	if err := s.store.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListThreads assembles the threaded view from the flat store. Assembly is
// iterative over an id index; no recursion, no in-place tree mutation.
func (s *CommunityService) ListThreads() ([]model.CommentThread, error) {
	comments, err := s.store.List()
	if err != nil {
		return nil, err
	}
	return assembleThreads(comments), nil
}

// assembleThreads builds the thread forest from the flat arena. Comments are
// listed in creation order and a reply is always created after its parent,
// so walking in reverse finishes every node's replies before the node itself
// is folded into its parent.
func assembleThreads(comments []model.Comment) []model.CommentThread {
	children := make(map[uint][]uint, len(comments))
	known := make(map[uint]bool, len(comments))
	for _, comment := range comments {
		known[comment.ID] = true
	}
	for _, comment := range comments {
		if comment.ParentID != 0 && known[comment.ParentID] {
			children[comment.ParentID] = append(children[comment.ParentID], comment.ID)
		}
	}

	finished := make(map[uint]model.CommentThread, len(comments))
	for i := len(comments) - 1; i >= 0; i-- {
		comment := comments[i]
		node := model.CommentThread{Comment: comment, Replies: []model.CommentThread{}}
		for _, childID := range children[comment.ID] {
			node.Replies = append(node.Replies, finished[childID])
		}
		finished[comment.ID] = node
	}

	roots := []model.CommentThread{}
	for _, comment := range comments {
		if comment.ParentID == 0 || !known[comment.ParentID] {
			roots = append(roots, finished[comment.ID])
		}
	}
	return roots
}

// DeleteComment removes a comment and all of its descendants. The subtree is
// collected breadth-first from the children index and deleted in one call.
func (s *CommunityService) DeleteComment(id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	comment, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	comments, err := s.store.List()
	if err != nil {
		return err
	}
	children := make(map[uint][]uint, len(comments))
	for _, c := range comments {
		if c.ParentID != 0 {
			children[c.ParentID] = append(children[c.ParentID], c.ID)
		}
	}

	doomed := []uint{id}
	for i := 0; i < len(doomed); i++ {
		doomed = append(doomed, children[doomed[i]]...)
	}
	return s.store.Delete(doomed)
}

// ClearComments empties the board, mirroring the client's "clear all" action.
func (s *CommunityService) ClearComments() error {
	return s.store.DeleteAll()
}
