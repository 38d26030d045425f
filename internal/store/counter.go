package store

import (
	"encoding/json"
	"time"
)

// Counter is a named, owned integer that users bump up and down.
type Counter struct {
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	OwnerID uint64 `json:"owner_id"`
	// PublicEdit lets users other than the owner change the count, subject
	// to the white- and blacklists.
	PublicEdit       bool      `json:"public_edit"`
	Queries          uint32    `json:"queries"`
	Location         *string   `json:"location"`
	CreatedAt        time.Time `json:"created_at"`
	BlacklistedUsers IDSet     `json:"blacklisted_users"`
	WhitelistedUsers IDSet     `json:"whitelisted_users"`
}

// NewCounter returns a publicly editable counter at zero.
func NewCounter(name string, owner uint64, loc Location, now time.Time) Counter {
	return Counter{
		Name:             name,
		OwnerID:          owner,
		PublicEdit:       true,
		Location:         loc.stamp(),
		CreatedAt:        now.UTC(),
		BlacklistedUsers: NewIDSet(),
		WhitelistedUsers: NewIDSet(),
	}
}

// UnmarshalJSON defaults PublicEdit to true for files written before the
// access-control fields existed.
func (c *Counter) UnmarshalJSON(data []byte) error {
	type plain Counter
	p := plain{PublicEdit: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Counter(p)
	return nil
}

// Clone returns a deep copy of c.
func (c Counter) Clone() Counter {
	out := c
	if c.Location != nil {
		loc := *c.Location
		out.Location = &loc
	}
	out.BlacklistedUsers = c.BlacklistedUsers.Clone()
	out.WhitelistedUsers = c.WhitelistedUsers.Clone()
	return out
}

// IsGeneric reports whether c was created outside any community.
func (c Counter) IsGeneric() bool { return c.Location == nil }

// Increment adds one to the count.
func (c *Counter) Increment() { c.Count++ }

// Decrement subtracts one from the count.
func (c *Counter) Decrement() { c.Count-- }
