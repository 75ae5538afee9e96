package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultAuthorLabel is used when a commenter does not supply a display name
const DefaultAuthorLabel = "Anonymous User"

// MaxCommentTextLength is the hard limit on comment text, in characters
const MaxCommentTextLength = 50

type Comment struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	ReportID    string    `gorm:"type:uuid;not null;index:idx_comments_report_created,priority:1" json:"report_id"`
	ParentID    *string   `gorm:"type:uuid;index" json:"parent_id"`
	AuthorLabel string    `gorm:"not null;default:'Anonymous User'" json:"author_label"`
	Text        string    `gorm:"not null;size:50" json:"text"`
	Fingerprint string    `gorm:"not null;default:''" json:"-"`
	IPAddress   string    `gorm:"column:ip_address;not null" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_comments_report_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Report Report        `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE;" json:"-"`
	Likes  []CommentLike `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate hook to set UUID before creating a Comment
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Comment) TableName() string {
	return "comments"
}

// IsReply reports whether the comment hangs off a top-level comment
func (c *Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

// VoterTokens returns the like set as a slice of tokens
func (c *Comment) VoterTokens() []string {
	tokens := make([]string, 0, len(c.Likes))
	for _, l := range c.Likes {
		tokens = append(tokens, l.VoterToken)
	}
	return tokens
}

// CommentLike is one member of a comment's like set. The unique index keeps
// every voter token at most once per comment.
type CommentLike struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	CommentID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_voter,priority:1" json:"comment_id"`
	VoterToken string    `gorm:"not null;uniqueIndex:idx_comment_likes_voter,priority:2" json:"voter_token"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
