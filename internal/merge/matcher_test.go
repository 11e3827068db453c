package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genhub/pkg/models"
)

func TestMatchKeepsBestPerSource(t *testing.T) {
	source := []models.Person{
		{ID: "s1", FirstName: "Yasmine", LastName: "Benali", BirthDate: "1950-03-10"},
		{ID: "s2", FirstName: "Nobody", LastName: "Known"},
	}
	target := []models.Person{
		{ID: "t1", FirstName: "Yasmine", LastName: "Benali"},
		{ID: "t2", FirstName: "Yasmine", LastName: "Benali", BirthDate: "1950-03-10"},
	}

	got := Match(source, target)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SourcePersonID)
	assert.Equal(t, "t2", got[0].TargetPersonID, "higher score wins")
	assert.Equal(t, 100, got[0].Score)
}

func TestMatchTieBreaksOnLowestTargetID(t *testing.T) {
	source := []models.Person{
		{ID: "s1", FirstName: "Omar", LastName: "Cherif"},
	}
	target := []models.Person{
		{ID: "t9", FirstName: "Omar", LastName: "Cherif"},
		{ID: "t2", FirstName: "Omar", LastName: "Cherif"},
		{ID: "t5", FirstName: "Omar", LastName: "Cherif"},
	}

	got := Match(source, target)
	require.Len(t, got, 1)
	assert.Equal(t, "t2", got[0].TargetPersonID)
}

func TestMatchThreshold(t *testing.T) {
	source := []models.Person{
		{ID: "s1", FirstName: "Ann", LastName: "Walk"},
	}
	// partial first + partial last = 50, below the threshold
	target := []models.Person{
		{ID: "t1", FirstName: "Anna", LastName: "Walker"},
	}

	assert.Empty(t, Match(source, target))
}

func TestMatchEmptyInputs(t *testing.T) {
	assert.Empty(t, Match(nil, []models.Person{{ID: "t1", FirstName: "A", LastName: "B"}}))
	assert.Empty(t, Match([]models.Person{{ID: "s1", FirstName: "A", LastName: "B"}}, nil))
}

func TestBuildReport(t *testing.T) {
	sourcePersons := []models.Person{
		{ID: "s1", FirstName: "Yasmine", LastName: "Benali", BirthDate: "1950-03-10"},
		{ID: "s2", FirstName: "Karim", LastName: "Benali"},
		{ID: "s3", FirstName: "Leila", LastName: "Haddad"},
	}
	targetPersons := []models.Person{
		{ID: "t1", FirstName: "Yasmine", LastName: "Benali", BirthDate: "1950-03-10"},
	}
	sourceLinks := []models.FamilyLink{
		{ID: "l1", PersonID1: "s1", PersonID2: "s2", LinkType: models.LinkTypeSpouse},
		{ID: "l2", PersonID1: "s1", PersonID2: "s3", LinkType: models.LinkTypeParent},
	}
	// the spouse link already exists in the target, with the matched
	// person and swapped endpoints
	targetLinks := []models.FamilyLink{
		{ID: "x1", PersonID1: "s2", PersonID2: "t1", LinkType: models.LinkTypeSpouse},
	}

	report := BuildReport(sourcePersons, targetPersons, sourceLinks, targetLinks)

	assert.Equal(t, 3, report.SourcePersonCount)
	assert.Equal(t, 1, report.TargetPersonCount)
	require.Len(t, report.Candidates, 1)
	assert.Equal(t, "s1", report.Candidates[0].SourcePersonID)
	assert.Equal(t, "t1", report.Candidates[0].TargetPersonID)
	assert.Equal(t, 2, report.NewPersonCount)
	assert.Equal(t, 1, report.NewLinkCount, "existing spouse link projected away")
}
