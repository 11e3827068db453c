package models

import "time"

// Known link types. link_type is an open string: records created by the
// API are restricted to these values, but links imported from elsewhere
// may carry other types and round-trip untouched.
const (
	LinkTypeParent  = "parent"
	LinkTypeChild   = "child"
	LinkTypeSpouse  = "spouse"
	LinkTypeSibling = "sibling"
)

// FamilyLink is a directed, typed relationship between two persons in
// the same owner's tree.
type FamilyLink struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PersonID1 string    `json:"person_id_1"`
	PersonID2 string    `json:"person_id_2"`
	LinkType  string    `json:"link_type"`
	CreatedAt time.Time `json:"created_at"`
}

func KnownLinkType(t string) bool {
	switch t {
	case LinkTypeParent, LinkTypeChild, LinkTypeSpouse, LinkTypeSibling:
		return true
	}
	return false
}

// SameEndpoints reports whether l and other connect the same unordered
// pair of persons with the same link type.
func (l FamilyLink) SameEndpoints(other FamilyLink) bool {
	if l.LinkType != other.LinkType {
		return false
	}
	if l.PersonID1 == other.PersonID1 && l.PersonID2 == other.PersonID2 {
		return true
	}
	return l.PersonID1 == other.PersonID2 && l.PersonID2 == other.PersonID1
}
