package models

import "time"

// Gender values accepted on a person record.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"
)

// Person is a single member of one user's family tree.
//
// Matching only ever looks at first/last name, birth date and gender;
// the remaining fields are opaque payload carried along on merge.
type Person struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Gender     string    `json:"gender"`
	BirthDate  string    `json:"birth_date,omitempty"`
	BirthPlace string    `json:"birth_place,omitempty"`
	DeathDate  string    `json:"death_date,omitempty"`
	DeathPlace string    `json:"death_place,omitempty"`
	Photo      string    `json:"photo,omitempty"` // base64
	Notes      string    `json:"notes,omitempty"`
	Region     string    `json:"region,omitempty"`
	MergedFrom string    `json:"merged_from,omitempty"` // source tree owner, set on merge import
	CreatedAt  time.Time `json:"created_at"`
}

func ValidGender(g string) bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}
