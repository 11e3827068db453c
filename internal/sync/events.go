package sync

import "time"

const (
	EventPersonUpdate = "person.update"
	EventPersonDelete = "person.delete"
	EventLinkUpdate   = "link.update"
	EventLinkDelete   = "link.delete"
	EventTreeMerge    = "tree.merge"
)

type TreeEvent struct {
	Type     string    `json:"type"`
	UserID   string    `json:"user_id"`
	EntityID string    `json:"entity_id,omitempty"`
	At       time.Time `json:"at"`
}
