package store

import "time"

// Tag is a named snippet of text recalled by name.
type Tag struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	OwnerID   uint64    `json:"owner_id"`
	Uses      uint32    `json:"uses"`
	Location  *string   `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTag returns a tag owned by owner, stamped with loc and now.
func NewTag(name, content string, owner uint64, loc Location, now time.Time) Tag {
	return Tag{
		Name:      name,
		Content:   content,
		OwnerID:   owner,
		Location:  loc.stamp(),
		CreatedAt: now.UTC(),
	}
}

// Clone returns a deep copy of t.
func (t Tag) Clone() Tag {
	out := t
	if t.Location != nil {
		loc := *t.Location
		out.Location = &loc
	}
	return out
}

// IsGeneric reports whether t was created outside any community.
func (t Tag) IsGeneric() bool { return t.Location == nil }
