package models

import (
	"encoding/json"
	"strings"
	"time"
)

// PublicationStatus is the canonical lifecycle: active until the reported
// item is recovered.
type PublicationStatus string

const (
	PublicationActive    PublicationStatus = "active"
	PublicationRecovered PublicationStatus = "recovered"
)

// ParsePublicationStatus accepts both stored vocabularies. The moderation
// flow's pending and verified are still open reports; resolved is recovered.
func ParsePublicationStatus(s string) (PublicationStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "pending", "verified", "":
		return PublicationActive, true
	case "recovered", "resolved":
		return PublicationRecovered, true
	}
	return "", false
}

type Publication struct {
	ID          string            `json:"id" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Location    string            `json:"location" validate:"required"`
	Date        string            `json:"date,omitempty"`
	Image       string            `json:"image,omitempty"`
	UserID      string            `json:"userId" validate:"required"`
	UserName    string            `json:"userName"`
	Status      PublicationStatus `json:"status" validate:"oneof=active recovered"`
	CreatedAt   time.Time         `json:"createdAt"`
	RecoveredAt *time.Time        `json:"recoveredAt,omitempty"`
	Views       int               `json:"views" validate:"gte=0"`
	Reactions   []Reaction        `json:"reactions"`

	Category   string   `json:"category,omitempty"`
	Hashtags   []string `json:"hashtags,omitempty"`
	Privacy    string   `json:"privacy,omitempty"`
	Priority   string   `json:"priority,omitempty"`
	Shares     int      `json:"shares"`
	SavedBy    []string `json:"savedBy,omitempty"`
	FollowedBy []string `json:"followedBy,omitempty"`

	AuthorAvatar string       `json:"authorAvatar,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Images       []string     `json:"images,omitempty"`
	Videos       []string     `json:"videos,omitempty"`
	Mentions     []string     `json:"mentions,omitempty"`
	IsEdited     bool         `json:"isEdited,omitempty"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty"`

	// Comments holds threads written inline by older clients. They are
	// moved into the comments collection by AdoptEmbeddedComments.
	Comments []Comment `json:"comments,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p *Publication) IsRecovered() bool {
	return p.Status == PublicationRecovered
}

// PrimaryLocation is the text before the first comma, trimmed.
func (p *Publication) PrimaryLocation() string {
	loc := p.Location
	if i := strings.Index(loc, ","); i >= 0 {
		loc = loc[:i]
	}
	return strings.TrimSpace(loc)
}

// UnmarshalJSON reads both stored publication shapes into the canonical one.
func (p *Publication) UnmarshalJSON(data []byte) error {
	type plain Publication
	aux := struct {
		*plain
		Status     string `json:"status"`
		AuthorID   string `json:"authorId"`
		AuthorName string `json:"authorName"`
		Author     string `json:"author"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	status, ok := ParsePublicationStatus(aux.Status)
	if !ok {
		// Keep unknown values so validation rejects them on write.
		status = PublicationStatus(aux.Status)
	}
	p.Status = status
	if p.UserID == "" {
		p.UserID = aux.AuthorID
	}
	if p.UserName == "" {
		p.UserName = aux.AuthorName
	}
	if p.UserName == "" {
		p.UserName = aux.Author
	}
	if p.Reactions == nil {
		p.Reactions = []Reaction{}
	}
	return nil
}

// FlatComments returns the embedded threads as flat records. Every record
// carries the publication id and replies at any depth point at their
// top-level comment.
func (p *Publication) FlatComments() []Comment {
	var out []Comment
	for _, c := range p.Comments {
		out = flattenThread(out, c, p.ID, "")
	}
	return out
}

func flattenThread(out []Comment, c Comment, publicationID, topID string) []Comment {
	replies := c.Replies
	c.Replies = nil
	c.PublicationID = publicationID
	if topID != "" {
		c.ParentID = topID
	} else {
		topID = c.ID
	}
	out = append(out, c)
	for _, r := range replies {
		out = flattenThread(out, r, publicationID, topID)
	}
	return out
}
