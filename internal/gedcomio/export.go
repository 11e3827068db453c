package gedcomio

import (
	"fmt"
	"strings"
	"time"

	"github.com/cacack/gedcom-go/gedcom"

	"genhub/pkg/models"
)

type family struct {
	husband  string
	wife     string
	children []string
}

// ToDocument renders a tree as a GEDCOM 5.5 document. Families are
// rebuilt from spouse and parent links; sibling links have no GEDCOM
// shape of their own and are counted as dropped.
func ToDocument(persons []models.Person, links []models.FamilyLink) (*gedcom.Document, int) {
	doc := &gedcom.Document{
		Header: &gedcom.Header{
			Version:  "5.5",
			Encoding: "UTF-8",
		},
	}

	idToXRef := make(map[string]string, len(persons))
	gender := make(map[string]string, len(persons))
	for i, p := range persons {
		xref := fmt.Sprintf("@I%d@", i+1)
		idToXRef[p.ID] = xref
		gender[p.ID] = p.Gender
		doc.Records = append(doc.Records, individualRecord(p, xref))
	}

	var fams []*family
	dropped := 0

	spouseFam := func(personID string) *family {
		for _, f := range fams {
			if f.husband == personID || f.wife == personID {
				return f
			}
		}
		return nil
	}

	for _, l := range links {
		if l.LinkType != models.LinkTypeSpouse {
			continue
		}
		if _, ok := idToXRef[l.PersonID1]; !ok {
			dropped++
			continue
		}
		if _, ok := idToXRef[l.PersonID2]; !ok {
			dropped++
			continue
		}
		if spouseFam(l.PersonID1) != nil || spouseFam(l.PersonID2) != nil {
			dropped++
			continue
		}
		f := &family{}
		if gender[l.PersonID2] == models.GenderMale && gender[l.PersonID1] != models.GenderMale {
			f.husband, f.wife = l.PersonID2, l.PersonID1
		} else {
			f.husband, f.wife = l.PersonID1, l.PersonID2
		}
		fams = append(fams, f)
	}

	for _, l := range links {
		var parentID, childID string
		switch l.LinkType {
		case models.LinkTypeParent:
			parentID, childID = l.PersonID1, l.PersonID2
		case models.LinkTypeChild:
			parentID, childID = l.PersonID2, l.PersonID1
		case models.LinkTypeSpouse:
			continue
		default:
			dropped++
			continue
		}
		if _, ok := idToXRef[parentID]; !ok {
			dropped++
			continue
		}
		if _, ok := idToXRef[childID]; !ok {
			dropped++
			continue
		}

		f := spouseFam(parentID)
		if f == nil {
			f = &family{}
			if gender[parentID] == models.GenderFemale {
				f.wife = parentID
			} else {
				f.husband = parentID
			}
			fams = append(fams, f)
		}
		if !contains(f.children, childID) {
			f.children = append(f.children, childID)
		}
	}

	for i, f := range fams {
		doc.Records = append(doc.Records, familyRecord(f, i+1, idToXRef))
	}

	return doc, dropped
}

func individualRecord(p models.Person, xref string) *gedcom.Record {
	rec := &gedcom.Record{
		XRef: xref,
		Type: gedcom.RecordTypeIndividual,
		Tags: []*gedcom.Tag{
			{Level: 1, Tag: "NAME", Value: fmt.Sprintf("%s /%s/", p.FirstName, p.LastName)},
			{Level: 1, Tag: "SEX", Value: genderToSex(p.Gender)},
		},
	}
	rec.Tags = append(rec.Tags, eventTags("BIRT", p.BirthDate, p.BirthPlace)...)
	rec.Tags = append(rec.Tags, eventTags("DEAT", p.DeathDate, p.DeathPlace)...)
	if p.Notes != "" {
		lines := strings.Split(p.Notes, "\n")
		rec.Tags = append(rec.Tags, &gedcom.Tag{Level: 1, Tag: "NOTE", Value: lines[0]})
		for _, line := range lines[1:] {
			rec.Tags = append(rec.Tags, &gedcom.Tag{Level: 2, Tag: "CONT", Value: line})
		}
	}
	return rec
}

func familyRecord(f *family, n int, idToXRef map[string]string) *gedcom.Record {
	rec := &gedcom.Record{
		XRef: fmt.Sprintf("@F%d@", n),
		Type: gedcom.RecordTypeFamily,
	}
	if f.husband != "" {
		rec.Tags = append(rec.Tags, &gedcom.Tag{Level: 1, Tag: "HUSB", Value: idToXRef[f.husband]})
	}
	if f.wife != "" {
		rec.Tags = append(rec.Tags, &gedcom.Tag{Level: 1, Tag: "WIFE", Value: idToXRef[f.wife]})
	}
	for _, child := range f.children {
		rec.Tags = append(rec.Tags, &gedcom.Tag{Level: 1, Tag: "CHIL", Value: idToXRef[child]})
	}
	return rec
}

func eventTags(tag, date, place string) []*gedcom.Tag {
	if date == "" && place == "" {
		return nil
	}
	tags := []*gedcom.Tag{{Level: 1, Tag: tag}}
	if date != "" {
		tags = append(tags, &gedcom.Tag{Level: 2, Tag: "DATE", Value: gedcomDate(date)})
	}
	if place != "" {
		tags = append(tags, &gedcom.Tag{Level: 2, Tag: "PLAC", Value: place})
	}
	return tags
}

func genderToSex(g string) string {
	switch g {
	case models.GenderMale:
		return "M"
	case models.GenderFemale:
		return "F"
	default:
		return "U"
	}
}

// gedcomDate renders an ISO date as "02 JAN 2006". Values that are not
// full ISO dates pass through untouched.
func gedcomDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return strings.ToUpper(t.Format("02 Jan 2006"))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
