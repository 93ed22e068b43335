package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	ds := New("unesco-indicators-for-argentina", "Argentina - Indicators", "ARG")

	assert.Equal(t, MaintainerID, ds.Maintainer)
	assert.Equal(t, OrganizationID, ds.Organization)
	assert.Equal(t, "ARG", ds.LocationISO3)
	assert.False(t, ds.Subnational)
	assert.Equal(t, UpdateFrequency, ds.UpdateFrequency)
	assert.Equal(t, Tags, ds.Tags)
	assert.Empty(t, ds.Resources)
}

func TestSetYearRange(t *testing.T) {
	ds := New("x", "X", "ARG")
	ds.SetYearRange(1970, 2014)
	assert.Equal(t, "01/01/1970-12/31/2014", ds.DateRange)
}

func TestAddResourcePreservesOrder(t *testing.T) {
	ds := New("x", "X", "ARG")
	ds.AddResource(Resource{Name: "a"})
	ds.AddResource(Resource{Name: "b"})
	assert.Equal(t, "a", ds.Resources[0].Name)
	assert.Equal(t, "b", ds.Resources[1].Name)
}
