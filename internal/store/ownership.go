package store

// OwnerCheck reports whether actor created the record.
func OwnerCheck(actor, owner uint64) bool {
	return actor == owner
}

// Policy carries the configured administrators. Administrators pass owner
// checks on tags.
type Policy struct {
	Admins IDSet
}

// NewPolicy returns a Policy with the given administrators.
func NewPolicy(admins ...uint64) Policy {
	return Policy{Admins: NewIDSet(admins...)}
}

// IsAdmin reports whether actor is a configured administrator.
func (p Policy) IsAdmin(actor uint64) bool {
	return p.Admins.Contains(actor)
}

// OwnerCheck is OwnerCheck widened to administrators.
func (p Policy) OwnerCheck(actor, owner uint64) bool {
	return p.IsAdmin(actor) || OwnerCheck(actor, owner)
}

// EditCheck reports whether actor may change a counter's count.
//
// A counter that is not publicly editable is owner-only. Otherwise a
// non-empty whitelist must contain actor, and the blacklist must not.
func EditCheck(actor uint64, c Counter) bool {
	if !c.PublicEdit {
		return OwnerCheck(actor, c.OwnerID)
	}
	if c.WhitelistedUsers.Len() > 0 && !c.WhitelistedUsers.Contains(actor) {
		return false
	}
	if c.BlacklistedUsers.Contains(actor) {
		return false
	}
	return true
}
