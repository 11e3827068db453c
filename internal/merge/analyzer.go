package merge

import "genhub/pkg/models"

// Report is the analysis result the caller reviews before deciding how
// each source person should be incorporated.
type Report struct {
	SourceOwnerName   string       `json:"source_owner_name"`
	SourcePersonCount int          `json:"source_person_count"`
	TargetPersonCount int          `json:"target_person_count"`
	Candidates        []Candidate  `json:"duplicate_candidates"`
	NewPersonCount    int          `json:"new_person_count"`
	NewLinkCount      int          `json:"new_link_count"`
}

// BuildReport runs the matcher over two person snapshots and projects
// what a default execution would create: every candidate merged, every
// other source person added, and each source link carried over unless
// an equivalent link already exists in the target tree.
func BuildReport(sourcePersons, targetPersons []models.Person, sourceLinks, targetLinks []models.FamilyLink) *Report {
	candidates := Match(sourcePersons, targetPersons)

	matched := make(map[string]string, len(candidates))
	for _, cand := range candidates {
		matched[cand.SourcePersonID] = cand.TargetPersonID
	}

	newLinks := 0
	for _, link := range sourceLinks {
		projected := models.FamilyLink{
			PersonID1: projectedID(link.PersonID1, matched),
			PersonID2: projectedID(link.PersonID2, matched),
			LinkType:  link.LinkType,
		}
		exists := false
		for _, existing := range targetLinks {
			if projected.SameEndpoints(existing) {
				exists = true
				break
			}
		}
		if !exists {
			newLinks++
		}
	}

	return &Report{
		SourcePersonCount: len(sourcePersons),
		TargetPersonCount: len(targetPersons),
		Candidates:        candidates,
		NewPersonCount:    len(sourcePersons) - len(candidates),
		NewLinkCount:      newLinks,
	}
}

// projectedID maps a source person id to the target id it would resolve
// to under default decisions: candidates merge into their match, all
// others keep their source id as a stand-in for the fresh id an add
// would allocate.
func projectedID(sourceID string, matched map[string]string) string {
	if targetID, ok := matched[sourceID]; ok {
		return targetID
	}
	return sourceID
}
