package merge

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genhub/pkg/models"
)

type memStore struct {
	persons map[string][]models.Person
	links   map[string][]models.FamilyLink
}

func newMemStore() *memStore {
	return &memStore{
		persons: make(map[string][]models.Person),
		links:   make(map[string][]models.FamilyLink),
	}
}

func (m *memStore) PersonsByOwner(_ context.Context, ownerID string) ([]models.Person, error) {
	return m.persons[ownerID], nil
}

func (m *memStore) LinksByOwner(_ context.Context, ownerID string) ([]models.FamilyLink, error) {
	return m.links[ownerID], nil
}

func (m *memStore) InsertPerson(_ context.Context, p models.Person) error {
	m.persons[p.UserID] = append(m.persons[p.UserID], p)
	return nil
}

func (m *memStore) InsertLink(_ context.Context, l models.FamilyLink) error {
	m.links[l.UserID] = append(m.links[l.UserID], l)
	return nil
}

func testPlanner(store Store) *Planner {
	n := 0
	return &Planner{
		Store: store,
		NewID: func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		},
	}
}

func seedSource(store *memStore) {
	store.persons["alice"] = []models.Person{
		{ID: "s1", UserID: "alice", FirstName: "Yasmine", LastName: "Benali"},
		{ID: "s2", UserID: "alice", FirstName: "Karim", LastName: "Benali"},
		{ID: "s3", UserID: "alice", FirstName: "Leila", LastName: "Benali"},
	}
	store.links["alice"] = []models.FamilyLink{
		{ID: "l1", UserID: "alice", PersonID1: "s1", PersonID2: "s2", LinkType: models.LinkTypeSpouse},
		{ID: "l2", UserID: "alice", PersonID1: "s1", PersonID2: "s3", LinkType: models.LinkTypeParent},
	}
}

func TestExecuteDefaultsToAdd(t *testing.T) {
	store := newMemStore()
	seedSource(store)

	res, err := testPlanner(store).Execute(context.Background(), "alice", "bob", nil, true)
	require.NoError(t, err)

	assert.Equal(t, 0, res.PersonsMerged)
	assert.Equal(t, 3, res.PersonsAdded)
	assert.Equal(t, 0, res.PersonsSkipped)
	assert.Equal(t, 2, res.LinksAdded)
	assert.Equal(t, len(store.persons["alice"]), res.PersonsMerged+res.PersonsAdded+res.PersonsSkipped)

	require.Len(t, store.persons["bob"], 3)
	for _, p := range store.persons["bob"] {
		assert.Equal(t, "bob", p.UserID)
		assert.Equal(t, "alice", p.MergedFrom)
		assert.NotContains(t, []string{"s1", "s2", "s3"}, p.ID, "added persons get fresh ids")
	}

	// source tree untouched
	assert.Len(t, store.persons["alice"], 3)
	assert.Len(t, store.links["alice"], 2)
}

func TestExecuteMergeMapsLinksToTarget(t *testing.T) {
	store := newMemStore()
	seedSource(store)
	store.persons["bob"] = []models.Person{
		{ID: "t1", UserID: "bob", FirstName: "Yasmine", LastName: "Benali"},
	}

	decisions := []Decision{
		{SourcePersonID: "s1", Action: ActionMerge, TargetPersonID: "t1"},
	}

	res, err := testPlanner(store).Execute(context.Background(), "alice", "bob", decisions, true)
	require.NoError(t, err)

	assert.Equal(t, 1, res.PersonsMerged)
	assert.Equal(t, 2, res.PersonsAdded)
	assert.Equal(t, 2, res.LinksAdded)

	require.Len(t, store.links["bob"], 2)
	for _, l := range store.links["bob"] {
		assert.Equal(t, "bob", l.UserID)
		if l.LinkType == models.LinkTypeSpouse {
			assert.Equal(t, "t1", l.PersonID1, "spouse link follows the merge target")
		}
	}
}

func TestExecuteSkipDropsPersonAndLinks(t *testing.T) {
	store := newMemStore()
	seedSource(store)

	decisions := []Decision{
		{SourcePersonID: "s1", Action: ActionSkip},
	}

	res, err := testPlanner(store).Execute(context.Background(), "alice", "bob", decisions, true)
	require.NoError(t, err)

	assert.Equal(t, 1, res.PersonsSkipped)
	assert.Equal(t, 2, res.PersonsAdded)
	assert.Equal(t, 0, res.LinksAdded, "both links touch the skipped person")
	assert.Len(t, store.persons["bob"], 2)
	assert.Empty(t, store.links["bob"])
}

func TestExecuteLinkImportIsIdempotent(t *testing.T) {
	store := newMemStore()
	seedSource(store)
	store.persons["bob"] = []models.Person{
		{ID: "t1", UserID: "bob", FirstName: "Yasmine", LastName: "Benali"},
		{ID: "t2", UserID: "bob", FirstName: "Karim", LastName: "Benali"},
		{ID: "t3", UserID: "bob", FirstName: "Leila", LastName: "Benali"},
	}
	decisions := []Decision{
		{SourcePersonID: "s1", Action: ActionMerge, TargetPersonID: "t1"},
		{SourcePersonID: "s2", Action: ActionMerge, TargetPersonID: "t2"},
		{SourcePersonID: "s3", Action: ActionMerge, TargetPersonID: "t3"},
	}

	planner := testPlanner(store)

	first, err := planner.Execute(context.Background(), "alice", "bob", decisions, true)
	require.NoError(t, err)
	assert.Equal(t, 2, first.LinksAdded)

	second, err := planner.Execute(context.Background(), "alice", "bob", decisions, true)
	require.NoError(t, err)
	assert.Equal(t, 0, second.LinksAdded, "equivalent links are not imported twice")
	assert.Len(t, store.links["bob"], 2)
}

func TestExecuteSwappedEndpointsCountAsExisting(t *testing.T) {
	store := newMemStore()
	seedSource(store)
	store.persons["bob"] = []models.Person{
		{ID: "t1", UserID: "bob", FirstName: "Yasmine", LastName: "Benali"},
		{ID: "t2", UserID: "bob", FirstName: "Karim", LastName: "Benali"},
	}
	store.links["bob"] = []models.FamilyLink{
		{ID: "x1", UserID: "bob", PersonID1: "t2", PersonID2: "t1", LinkType: models.LinkTypeSpouse},
	}
	decisions := []Decision{
		{SourcePersonID: "s1", Action: ActionMerge, TargetPersonID: "t1"},
		{SourcePersonID: "s2", Action: ActionMerge, TargetPersonID: "t2"},
		{SourcePersonID: "s3", Action: ActionSkip},
	}

	res, err := testPlanner(store).Execute(context.Background(), "alice", "bob", decisions, true)
	require.NoError(t, err)
	assert.Equal(t, 0, res.LinksAdded)
	assert.Len(t, store.links["bob"], 1)
}

func TestExecuteWithoutLinkImport(t *testing.T) {
	store := newMemStore()
	seedSource(store)

	res, err := testPlanner(store).Execute(context.Background(), "alice", "bob", nil, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.PersonsAdded)
	assert.Equal(t, 0, res.LinksAdded)
	assert.Empty(t, store.links["bob"])
}

func TestExecuteIgnoresUnknownDecisions(t *testing.T) {
	store := newMemStore()
	seedSource(store)

	decisions := []Decision{
		{SourcePersonID: "ghost", Action: ActionSkip},
	}

	res, err := testPlanner(store).Execute(context.Background(), "alice", "bob", decisions, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.PersonsSkipped)
	assert.Equal(t, 3, res.PersonsAdded)
}

func TestExecuteMessage(t *testing.T) {
	store := newMemStore()
	seedSource(store)

	decisions := []Decision{
		{SourcePersonID: "s1", Action: ActionSkip},
	}
	res, err := testPlanner(store).Execute(context.Background(), "alice", "bob", decisions, true)
	require.NoError(t, err)
	assert.Equal(t, "merge complete: 0 merged, 2 added, 1 skipped, 0 links added", res.Message)
}
