package gedcomio

import (
	"fmt"
	"strings"

	"github.com/cacack/gedcom-go/gedcom"

	"genhub/pkg/models"
)

// FromDocument flattens a decoded GEDCOM document into persons and
// links owned by ownerID. Individuals keep their record order; family
// records become spouse and parent links. References to individuals
// missing from the document are dropped.
func FromDocument(doc *gedcom.Document, ownerID string, newID func() string) ([]models.Person, []models.FamilyLink) {
	var persons []models.Person
	var links []models.FamilyLink

	notes := noteTexts(doc)

	xrefToID := make(map[string]string)
	for _, ind := range doc.Individuals() {
		if ind == nil {
			continue
		}
		p := models.Person{
			ID:     newID(),
			UserID: ownerID,
			Gender: sexToGender(ind.Sex),
			Notes:  notes[ind.XRef],
		}
		p.FirstName, p.LastName = splitName(ind)
		for _, ev := range ind.Events {
			if ev == nil {
				continue
			}
			switch string(ev.Type) {
			case "BIRT":
				p.BirthDate = eventDate(ev)
				p.BirthPlace = ev.Place
			case "DEAT":
				p.DeathDate = eventDate(ev)
				p.DeathPlace = ev.Place
			}
		}
		xrefToID[ind.XRef] = p.ID
		persons = append(persons, p)
	}

	addLink := func(xref1, xref2, linkType string) {
		id1, ok1 := xrefToID[xref1]
		id2, ok2 := xrefToID[xref2]
		if !ok1 || !ok2 || id1 == id2 {
			return
		}
		links = append(links, models.FamilyLink{
			ID:        newID(),
			UserID:    ownerID,
			PersonID1: id1,
			PersonID2: id2,
			LinkType:  linkType,
		})
	}

	for _, fam := range doc.Families() {
		if fam == nil {
			continue
		}
		if fam.Husband != "" && fam.Wife != "" {
			addLink(fam.Husband, fam.Wife, models.LinkTypeSpouse)
		}
		for _, child := range fam.Children {
			if fam.Husband != "" {
				addLink(fam.Husband, child, models.LinkTypeParent)
			}
			if fam.Wife != "" {
				addLink(fam.Wife, child, models.LinkTypeParent)
			}
		}
	}

	return persons, links
}

func splitName(ind *gedcom.Individual) (first, last string) {
	if len(ind.Names) == 0 || ind.Names[0] == nil {
		return "", ""
	}
	n := ind.Names[0]
	if n.Given != "" || n.Surname != "" {
		return strings.TrimSpace(n.Given), strings.TrimSpace(n.Surname)
	}
	// NAME values keep the surname between slashes: "Jane /Doe/"
	full := n.Full
	if i := strings.Index(full, "/"); i >= 0 {
		first = strings.TrimSpace(full[:i])
		last = strings.TrimSpace(strings.Trim(full[i:], "/ "))
		return first, last
	}
	return strings.TrimSpace(full), ""
}

func sexToGender(sex string) string {
	switch strings.ToUpper(strings.TrimSpace(sex)) {
	case "M":
		return models.GenderMale
	case "F":
		return models.GenderFemale
	default:
		return models.GenderUnknown
	}
}

// noteTexts gathers per-individual note text, resolving shared note
// records by xref and stitching CONT/CONC continuation lines.
func noteTexts(doc *gedcom.Document) map[string]string {
	byXRef := make(map[string]*gedcom.Note)
	for _, n := range doc.Notes() {
		if n != nil && n.XRef != "" {
			byXRef[n.XRef] = n
		}
	}

	out := make(map[string]string)
	for _, rec := range doc.Records {
		if rec == nil || rec.Type != gedcom.RecordTypeIndividual {
			continue
		}
		var parts []string
		var cur *strings.Builder
		flush := func() {
			if cur != nil {
				parts = append(parts, cur.String())
				cur = nil
			}
		}
		for _, tag := range rec.Tags {
			if tag == nil {
				continue
			}
			switch {
			case tag.Level == 1 && tag.Tag == "NOTE":
				flush()
				if strings.HasPrefix(tag.Value, "@") {
					if n := byXRef[tag.Value]; n != nil {
						parts = append(parts, n.FullText())
					}
					continue
				}
				cur = &strings.Builder{}
				cur.WriteString(tag.Value)
			case cur != nil && tag.Level == 2 && tag.Tag == "CONT":
				cur.WriteString("\n")
				cur.WriteString(tag.Value)
			case cur != nil && tag.Level == 2 && tag.Tag == "CONC":
				cur.WriteString(tag.Value)
			case tag.Level == 1:
				flush()
			}
		}
		flush()
		if len(parts) > 0 {
			out[rec.XRef] = strings.Join(parts, "\n")
		}
	}
	return out
}

// eventDate prefers the parsed date so stored values stay ISO shaped.
func eventDate(ev *gedcom.Event) string {
	d := ev.ParsedDate
	if d == nil || d.Year == 0 || d.IsPhrase {
		return strings.TrimSpace(ev.Date)
	}
	if d.Month == 0 {
		return fmt.Sprintf("%04d", d.Year)
	}
	if d.Day == 0 {
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
