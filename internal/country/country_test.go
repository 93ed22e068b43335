package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestISO3FromISO2(t *testing.T) {
	table := NewTable()

	iso3, ok := table.ISO3FromISO2("AR")
	assert.True(t, ok)
	assert.Equal(t, "ARG", iso3)

	iso3, ok = table.ISO3FromISO2(" gb ")
	assert.True(t, ok)
	assert.Equal(t, "GBR", iso3)

	_, ok = table.ISO3FromISO2("XX")
	assert.False(t, ok)
}

func TestISO3FromISO2_DependentTerritories(t *testing.T) {
	table := NewTable()
	for _, tc := range []struct{ iso2, iso3 string }{
		{"AX", "ALA"},
		{"FO", "FRO"},
		{"GG", "GGY"},
		{"GP", "GLP"},
		{"IM", "IMN"},
		{"JE", "JEY"},
		{"MQ", "MTQ"},
		{"NC", "NCL"},
		{"PM", "SPM"},
		{"RE", "REU"},
		{"TW", "TWN"},
		{"WF", "WLF"},
		{"YT", "MYT"},
	} {
		iso3, ok := table.ISO3FromISO2(tc.iso2)
		assert.True(t, ok, tc.iso2)
		assert.Equal(t, tc.iso3, iso3)
	}

	iso3, ok := table.ISO3Fuzzy("Faroe Islands")
	assert.True(t, ok)
	assert.Equal(t, "FRO", iso3)
}

func TestISO3Fuzzy_ExactName(t *testing.T) {
	table := NewTable()

	iso3, ok := table.ISO3Fuzzy("Republic of Korea")
	assert.True(t, ok)
	assert.Equal(t, "KOR", iso3)

	// Exact match wins before substring scanning: "Niger" does not resolve
	// to Nigeria.
	iso3, ok = table.ISO3Fuzzy("Niger")
	assert.True(t, ok)
	assert.Equal(t, "NER", iso3)
}

func TestISO3Fuzzy_Decorated(t *testing.T) {
	table := NewTable()

	iso3, ok := table.ISO3Fuzzy("Bolivia (Plurinational State of)")
	assert.True(t, ok)
	assert.Equal(t, "BOL", iso3)

	iso3, ok = table.ISO3Fuzzy("Venezuela (Bolivarian Republic of)")
	assert.True(t, ok)
	assert.Equal(t, "VEN", iso3)
}

func TestISO3Fuzzy_NoMatch(t *testing.T) {
	table := NewTable()
	_, ok := table.ISO3Fuzzy("Atlantis")
	assert.False(t, ok)
	_, ok = table.ISO3Fuzzy("")
	assert.False(t, ok)
}
