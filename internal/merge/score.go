package merge

import (
	"strings"
	"time"

	"genhub/pkg/models"
)

// Additive similarity weights. A candidate needs two strong signals to
// clear the threshold: last name alone (40) never qualifies, but same
// first + last name (80) or same first name + close birth year (50+...)
// combinations do.
const (
	ScoreFirstNameExact   = 40
	ScoreFirstNamePartial = 25
	ScoreLastNameExact    = 40
	ScoreLastNamePartial  = 25
	ScoreBirthDateExact   = 20
	ScoreBirthDateClose   = 10
	ScoreGenderBonus      = 5

	// CandidateThreshold is the minimum score for a duplicate candidate.
	CandidateThreshold = 60

	maxScore = 100
)

// Birth dates within a year still count as "close": a person recorded
// with only a year may land on Jan 1 while the other sits in December.
const closeBirthDays = 365

// NoMatchReason is returned when no criterion contributed any points.
const NoMatchReason = "no match"

// Score computes a 0-100 similarity between two persons plus a
// human-readable explanation of which criteria matched. The function is
// symmetric in its arguments.
func Score(a, b models.Person) (int, string) {
	score := 0
	var reasons []string

	addName := func(x, y string, exact, partial int, exactReason, partialReason string) {
		nx, ny := NormalizeName(x), NormalizeName(y)
		switch {
		case nx != "" && nx == ny:
			score += exact
			reasons = append(reasons, exactReason)
		case nx != "" && ny != "" && (strings.Contains(nx, ny) || strings.Contains(ny, nx)):
			score += partial
			reasons = append(reasons, partialReason)
		}
	}

	addName(a.FirstName, b.FirstName, ScoreFirstNameExact, ScoreFirstNamePartial,
		"same first name", "similar first name")
	addName(a.LastName, b.LastName, ScoreLastNameExact, ScoreLastNamePartial,
		"same last name", "similar last name")

	if da, okA := ParseDate(a.BirthDate); okA {
		if db, okB := ParseDate(b.BirthDate); okB {
			diff := da.Sub(db)
			if diff < 0 {
				diff = -diff
			}
			switch {
			case da.Equal(db):
				score += ScoreBirthDateExact
				reasons = append(reasons, "same birth date")
			case diff <= closeBirthDays*24*time.Hour:
				score += ScoreBirthDateClose
				reasons = append(reasons, "close birth year")
			}
		}
	}

	if a.Gender != "" && a.Gender != models.GenderUnknown && a.Gender == b.Gender {
		score += ScoreGenderBonus
		reasons = append(reasons, "same gender")
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}

	if len(reasons) == 0 {
		return score, NoMatchReason
	}
	return score, strings.Join(reasons, " + ")
}
