package merge

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"genhub/pkg/models"
)

// Decision actions.
const (
	ActionMerge = "merge"
	ActionAdd   = "add"
	ActionSkip  = "skip"
)

// Decision is the caller's instruction for one source person.
type Decision struct {
	SourcePersonID string `json:"source_person_id"`
	Action         string `json:"action"`
	TargetPersonID string `json:"target_person_id,omitempty"` // required for merge
}

// Result summarizes one executed merge.
type Result struct {
	PersonsMerged  int    `json:"persons_merged"`
	PersonsAdded   int    `json:"persons_added"`
	PersonsSkipped int    `json:"persons_skipped"`
	LinksAdded     int    `json:"links_added"`
	Message        string `json:"message"`
}

// Store is the person/link persistence the planner executes against.
// *tree.Repo satisfies it.
type Store interface {
	PersonsByOwner(ctx context.Context, ownerID string) ([]models.Person, error)
	LinksByOwner(ctx context.Context, ownerID string) ([]models.FamilyLink, error)
	InsertPerson(ctx context.Context, p models.Person) error
	InsertLink(ctx context.Context, l models.FamilyLink) error
}

// Planner executes reviewed merge decisions against the store.
type Planner struct {
	Store Store
	NewID func() string
}

func NewPlanner(store Store) *Planner {
	return &Planner{Store: store, NewID: uuid.NewString}
}

// Execute applies the decision list to copy persons from the source
// tree into the target tree.
//
// Decisions are keyed by source person id; a source person without a
// decision defaults to add, favoring over-import over silent data loss.
// Decisions referencing unknown source persons are ignored. A merge
// decision's target id is trusted as supplied: the analysis step only
// proposes valid candidates, and re-validating here would not close the
// gap for callers that submit arbitrary lists anyway.
//
// When importLinks is set, every source link whose endpoints both
// mapped is carried over unless the target tree already holds a link
// with the same unordered endpoint pair and type. Skipped persons make
// their links unrepresentable; those are dropped silently.
func (p *Planner) Execute(ctx context.Context, sourceOwnerID, targetOwnerID string, decisions []Decision, importLinks bool) (*Result, error) {
	sourcePersons, err := p.Store.PersonsByOwner(ctx, sourceOwnerID)
	if err != nil {
		return nil, fmt.Errorf("load source persons: %w", err)
	}

	decisionByID := make(map[string]Decision, len(decisions))
	for _, d := range decisions {
		decisionByID[d.SourcePersonID] = d
	}

	res := &Result{}
	idMap := make(map[string]string, len(sourcePersons))

	for _, src := range sourcePersons {
		d, ok := decisionByID[src.ID]
		if !ok {
			d = Decision{SourcePersonID: src.ID, Action: ActionAdd}
		}

		switch d.Action {
		case ActionMerge:
			idMap[src.ID] = d.TargetPersonID
			res.PersonsMerged++
		case ActionSkip:
			res.PersonsSkipped++
		default: // add, including unrecognized actions
			copied := src
			copied.ID = p.newID()
			copied.UserID = targetOwnerID
			copied.MergedFrom = sourceOwnerID
			if err := p.Store.InsertPerson(ctx, copied); err != nil {
				return nil, fmt.Errorf("insert person: %w", err)
			}
			idMap[src.ID] = copied.ID
			res.PersonsAdded++
		}
	}

	if importLinks {
		if err := p.importLinks(ctx, sourceOwnerID, targetOwnerID, idMap, res); err != nil {
			return nil, err
		}
	}

	res.Message = fmt.Sprintf("merge complete: %d merged, %d added, %d skipped, %d links added",
		res.PersonsMerged, res.PersonsAdded, res.PersonsSkipped, res.LinksAdded)
	return res, nil
}

func (p *Planner) importLinks(ctx context.Context, sourceOwnerID, targetOwnerID string, idMap map[string]string, res *Result) error {
	sourceLinks, err := p.Store.LinksByOwner(ctx, sourceOwnerID)
	if err != nil {
		return fmt.Errorf("load source links: %w", err)
	}
	targetLinks, err := p.Store.LinksByOwner(ctx, targetOwnerID)
	if err != nil {
		return fmt.Errorf("load target links: %w", err)
	}

	for _, link := range sourceLinks {
		id1, ok1 := idMap[link.PersonID1]
		id2, ok2 := idMap[link.PersonID2]
		if !ok1 || !ok2 {
			// an endpoint was skipped; the link has no home in the target tree
			continue
		}

		mapped := models.FamilyLink{
			ID:        p.newID(),
			UserID:    targetOwnerID,
			PersonID1: id1,
			PersonID2: id2,
			LinkType:  link.LinkType,
		}

		exists := false
		for _, existing := range targetLinks {
			if mapped.SameEndpoints(existing) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}

		if err := p.Store.InsertLink(ctx, mapped); err != nil {
			return fmt.Errorf("insert link: %w", err)
		}
		targetLinks = append(targetLinks, mapped)
		res.LinksAdded++
	}
	return nil
}

func (p *Planner) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return uuid.NewString()
}
