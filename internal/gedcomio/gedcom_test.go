package gedcomio

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/cacack/gedcom-go/decoder"
	"github.com/cacack/gedcom-go/encoder"
	"github.com/cacack/gedcom-go/gedcom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genhub/pkg/models"
)

const sampleGedcom = `0 HEAD
1 GEDC
2 VERS 5.5
1 CHAR UTF-8
0 @I1@ INDI
1 NAME John /Smith/
1 SEX M
1 BIRT
2 DATE 1900
2 PLAC London
1 NOTE Emigrated
2 CONT Returned 1925
0 @I2@ INDI
1 NAME Mary /Smith/
1 SEX F
0 @I3@ INDI
1 NAME Peter /Smith/
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
0 TRLR
`

func testIDGen() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestFromDocument(t *testing.T) {
	doc, err := decoder.Decode(strings.NewReader(sampleGedcom))
	require.NoError(t, err)

	persons, links := FromDocument(doc, "owner", testIDGen())
	require.Len(t, persons, 3)

	byName := make(map[string]models.Person)
	for _, p := range persons {
		assert.Equal(t, "owner", p.UserID)
		byName[p.FirstName] = p
	}

	john := byName["John"]
	assert.Equal(t, "Smith", john.LastName)
	assert.Equal(t, models.GenderMale, john.Gender)
	assert.Equal(t, "1900", john.BirthDate)
	assert.Equal(t, "London", john.BirthPlace)
	assert.Equal(t, "Emigrated\nReturned 1925", john.Notes)

	mary := byName["Mary"]
	assert.Equal(t, models.GenderFemale, mary.Gender)

	peter := byName["Peter"]
	assert.Equal(t, models.GenderUnknown, peter.Gender)

	// one spouse link plus a parent link per parent
	require.Len(t, links, 3)
	spouses, parents := 0, 0
	for _, l := range links {
		assert.Equal(t, "owner", l.UserID)
		switch l.LinkType {
		case models.LinkTypeSpouse:
			spouses++
			assert.Equal(t, john.ID, l.PersonID1)
			assert.Equal(t, mary.ID, l.PersonID2)
		case models.LinkTypeParent:
			parents++
			assert.Equal(t, peter.ID, l.PersonID2)
		}
	}
	assert.Equal(t, 1, spouses)
	assert.Equal(t, 2, parents)
}

func TestToDocument(t *testing.T) {
	persons := []models.Person{
		{ID: "p1", FirstName: "John", LastName: "Smith", Gender: models.GenderMale, BirthDate: "1900-05-01", BirthPlace: "London", Notes: "Sailor"},
		{ID: "p2", FirstName: "Mary", LastName: "Smith", Gender: models.GenderFemale},
		{ID: "p3", FirstName: "Peter", LastName: "Smith"},
		{ID: "p4", FirstName: "Paula", LastName: "Smith"},
	}
	links := []models.FamilyLink{
		{ID: "l1", PersonID1: "p1", PersonID2: "p2", LinkType: models.LinkTypeSpouse},
		{ID: "l2", PersonID1: "p1", PersonID2: "p3", LinkType: models.LinkTypeParent},
		{ID: "l3", PersonID1: "p2", PersonID2: "p3", LinkType: models.LinkTypeParent},
		{ID: "l4", PersonID1: "p3", PersonID2: "p4", LinkType: models.LinkTypeSibling},
	}

	doc, dropped := ToDocument(persons, links)
	assert.Equal(t, 1, dropped, "sibling links have no GEDCOM shape")
	require.NotNil(t, doc.Header)
	assert.Equal(t, gedcom.Version("5.5"), doc.Header.Version)

	var indis, fams []*gedcom.Record
	for _, rec := range doc.Records {
		switch rec.Type {
		case gedcom.RecordTypeIndividual:
			indis = append(indis, rec)
		case gedcom.RecordTypeFamily:
			fams = append(fams, rec)
		}
	}
	require.Len(t, indis, 4)
	require.Len(t, fams, 1)

	assert.Equal(t, "John /Smith/", tagValue(indis[0], "NAME"))
	assert.Equal(t, "M", tagValue(indis[0], "SEX"))
	assert.Equal(t, "01 MAY 1900", tagValue(indis[0], "DATE"))
	assert.Equal(t, "London", tagValue(indis[0], "PLAC"))
	assert.Equal(t, "Sailor", tagValue(indis[0], "NOTE"))
	assert.Equal(t, "U", tagValue(indis[2], "SEX"))

	fam := fams[0]
	assert.Equal(t, "@I1@", tagValue(fam, "HUSB"))
	assert.Equal(t, "@I2@", tagValue(fam, "WIFE"))
	assert.Equal(t, "@I3@", tagValue(fam, "CHIL"))
}

func TestToDocumentSingleParentFamily(t *testing.T) {
	persons := []models.Person{
		{ID: "p1", FirstName: "Mary", LastName: "Smith", Gender: models.GenderFemale},
		{ID: "p2", FirstName: "Peter", LastName: "Smith"},
	}
	links := []models.FamilyLink{
		{ID: "l1", PersonID1: "p1", PersonID2: "p2", LinkType: models.LinkTypeParent},
	}

	doc, dropped := ToDocument(persons, links)
	assert.Zero(t, dropped)

	var fam *gedcom.Record
	for _, rec := range doc.Records {
		if rec.Type == gedcom.RecordTypeFamily {
			fam = rec
		}
	}
	require.NotNil(t, fam)
	assert.Equal(t, "@I1@", tagValue(fam, "WIFE"), "single mother becomes WIFE")
	assert.Empty(t, tagValue(fam, "HUSB"))
	assert.Equal(t, "@I2@", tagValue(fam, "CHIL"))
}

func TestRoundTrip(t *testing.T) {
	persons := []models.Person{
		{ID: "p1", FirstName: "John", LastName: "Smith", Gender: models.GenderMale, BirthDate: "1900-05-01", BirthPlace: "London"},
		{ID: "p2", FirstName: "Mary", LastName: "Smith", Gender: models.GenderFemale},
		{ID: "p3", FirstName: "Peter", LastName: "Smith", Gender: models.GenderMale},
	}
	links := []models.FamilyLink{
		{ID: "l1", PersonID1: "p1", PersonID2: "p2", LinkType: models.LinkTypeSpouse},
		{ID: "l2", PersonID1: "p1", PersonID2: "p3", LinkType: models.LinkTypeParent},
		{ID: "l3", PersonID1: "p2", PersonID2: "p3", LinkType: models.LinkTypeParent},
	}

	doc, dropped := ToDocument(persons, links)
	require.Zero(t, dropped)

	var buf bytes.Buffer
	require.NoError(t, encoder.Encode(&buf, doc))

	decoded, err := decoder.Decode(&buf)
	require.NoError(t, err)

	gotPersons, gotLinks := FromDocument(decoded, "owner", testIDGen())
	require.Len(t, gotPersons, 3)
	require.Len(t, gotLinks, 3)

	names := make([]string, 0, len(gotPersons))
	for _, p := range gotPersons {
		names = append(names, p.FirstName+" "+p.LastName)
	}
	assert.ElementsMatch(t, []string{"John Smith", "Mary Smith", "Peter Smith"}, names)
}

func TestGedcomDate(t *testing.T) {
	assert.Equal(t, "01 MAY 1900", gedcomDate("1900-05-01"))
	assert.Equal(t, "1900", gedcomDate("1900"), "partial dates pass through")
	assert.Equal(t, "", gedcomDate(""))
}

func tagValue(rec *gedcom.Record, tag string) string {
	for _, t := range rec.Tags {
		if t.Tag == tag {
			return t.Value
		}
	}
	return ""
}
