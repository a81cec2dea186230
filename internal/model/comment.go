package model

import "time"

// Comment is one entry on the community experience board. Replies link to
// their parent by ID; threads are assembled at read time from the flat set.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ParentID  uint      `gorm:"index" json:"parent_id"` // 0 = top level
	Author    string    `gorm:"size:64;not null" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentThread is a comment with its direct replies, as served to the client.
type CommentThread struct {
	Comment
	Replies []CommentThread `json:"replies"`
}
