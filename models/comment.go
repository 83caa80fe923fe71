package models

import "time"

// Comment is stored flat; a reply points at its top-level comment through
// ParentID.
type Comment struct {
	ID            string     `json:"id" validate:"required"`
	PublicationID string     `json:"publicationId" validate:"required"`
	UserID        string     `json:"userId" validate:"required"`
	UserName      string     `json:"userName"`
	UserAvatar    string     `json:"userAvatar,omitempty"`
	Content       string     `json:"content" validate:"required"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	ParentID      string     `json:"parentId,omitempty"`
	Reactions     []Reaction `json:"reactions"`
	Mentions      []string   `json:"mentions"`
	Images        []string   `json:"images"`
	IsEdited      bool       `json:"isEdited"`

	// Replies is only set on threads embedded in a publication.
	Replies []Comment `json:"replies,omitempty"`
}

func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}
