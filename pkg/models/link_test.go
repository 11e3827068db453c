package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameEndpoints(t *testing.T) {
	base := FamilyLink{PersonID1: "a", PersonID2: "b", LinkType: LinkTypeSpouse}

	assert.True(t, base.SameEndpoints(FamilyLink{PersonID1: "a", PersonID2: "b", LinkType: LinkTypeSpouse}))
	assert.True(t, base.SameEndpoints(FamilyLink{PersonID1: "b", PersonID2: "a", LinkType: LinkTypeSpouse}),
		"endpoint order does not matter")
	assert.False(t, base.SameEndpoints(FamilyLink{PersonID1: "a", PersonID2: "b", LinkType: LinkTypeParent}),
		"different type is a different link")
	assert.False(t, base.SameEndpoints(FamilyLink{PersonID1: "a", PersonID2: "c", LinkType: LinkTypeSpouse}))
}

func TestKnownLinkType(t *testing.T) {
	for _, lt := range []string{LinkTypeParent, LinkTypeChild, LinkTypeSpouse, LinkTypeSibling} {
		assert.True(t, KnownLinkType(lt), lt)
	}
	assert.False(t, KnownLinkType("cousin"))
	assert.False(t, KnownLinkType(""))
}

func TestValidGender(t *testing.T) {
	assert.True(t, ValidGender(GenderMale))
	assert.True(t, ValidGender(GenderFemale))
	assert.True(t, ValidGender(GenderUnknown))
	assert.False(t, ValidGender("other"))
}
