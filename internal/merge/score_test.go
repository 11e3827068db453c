package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"genhub/pkg/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		a, b       models.Person
		wantScore  int
		wantReason string
	}{
		{
			name:       "identical person clamps at 100",
			a:          models.Person{FirstName: "Yasmine", LastName: "Benali", BirthDate: "1950-03-10", Gender: models.GenderFemale},
			b:          models.Person{FirstName: "Yasmine", LastName: "Benali", BirthDate: "1950-03-10", Gender: models.GenderFemale},
			wantScore:  100,
			wantReason: "same first name + same last name + same birth date + same gender",
		},
		{
			name:       "full name and birth date without gender",
			a:          models.Person{FirstName: "Yasmine", LastName: "Benali", BirthDate: "1950-03-10"},
			b:          models.Person{FirstName: "Yasmine", LastName: "Benali", BirthDate: "1950-03-10"},
			wantScore:  100,
			wantReason: "same first name + same last name + same birth date",
		},
		{
			name:       "nothing in common",
			a:          models.Person{FirstName: "Yasmine", LastName: "Benali"},
			b:          models.Person{FirstName: "Pierre", LastName: "Dupont"},
			wantScore:  0,
			wantReason: "no match",
		},
		{
			name:       "close birth year",
			a:          models.Person{FirstName: "Omar", LastName: "Cherif", BirthDate: "1920"},
			b:          models.Person{FirstName: "Omar", LastName: "Cherif", BirthDate: "1920-11-02"},
			wantScore:  90,
			wantReason: "same first name + same last name + close birth year",
		},
		{
			name:       "partial first name",
			a:          models.Person{FirstName: "Ann", LastName: "Walker"},
			b:          models.Person{FirstName: "Anna", LastName: "Walker"},
			wantScore:  65,
			wantReason: "similar first name + same last name",
		},
		{
			name:       "diacritics do not block a match",
			a:          models.Person{FirstName: "Jérôme", LastName: "Márquez"},
			b:          models.Person{FirstName: "Jerome", LastName: "Marquez"},
			wantScore:  80,
			wantReason: "same first name + same last name",
		},
		{
			name:       "unknown gender earns no bonus",
			a:          models.Person{FirstName: "Sam", LastName: "Rees", Gender: models.GenderUnknown},
			b:          models.Person{FirstName: "Sam", LastName: "Rees", Gender: models.GenderUnknown},
			wantScore:  80,
			wantReason: "same first name + same last name",
		},
		{
			name:       "last name alone stays below threshold",
			a:          models.Person{FirstName: "Leila", LastName: "Benali"},
			b:          models.Person{FirstName: "Karim", LastName: "Benali"},
			wantScore:  40,
			wantReason: "same last name",
		},
		{
			name:       "unparseable dates contribute nothing",
			a:          models.Person{FirstName: "Omar", LastName: "Cherif", BirthDate: "circa 1920"},
			b:          models.Person{FirstName: "Omar", LastName: "Cherif", BirthDate: "1920-11-02"},
			wantScore:  80,
			wantReason: "same first name + same last name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reason := Score(tt.a, tt.b)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantReason, reason)

			// symmetric except for the gender guard, which both sides
			// satisfy in these cases
			revScore, _ := Score(tt.b, tt.a)
			assert.Equal(t, score, revScore)
		})
	}
}
