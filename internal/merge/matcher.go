package merge

import "genhub/pkg/models"

// Candidate pairs a source person with its best-scoring target match.
type Candidate struct {
	SourcePersonID string `json:"source_person_id"`
	TargetPersonID string `json:"target_person_id"`
	Score          int    `json:"similarity_score"`
	Reason         string `json:"match_reason"`
}

// Match scores every source person against every target person and
// keeps, per source person, the single best target at or above the
// candidate threshold. Source persons with no qualifying target are
// implicitly new and absent from the result.
//
// Ties on the maximum score break toward the lowest target person id,
// so the result does not depend on store iteration order.
func Match(source, target []models.Person) []Candidate {
	var out []Candidate
	for _, src := range source {
		best := Candidate{Score: -1}
		for _, tgt := range target {
			score, reason := Score(src, tgt)
			if score > best.Score || (score == best.Score && tgt.ID < best.TargetPersonID) {
				best = Candidate{
					SourcePersonID: src.ID,
					TargetPersonID: tgt.ID,
					Score:          score,
					Reason:         reason,
				}
			}
		}
		if best.Score >= CandidateThreshold {
			out = append(out, best)
		}
	}
	return out
}
