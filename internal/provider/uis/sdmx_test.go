package uis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/codelist/UNESCO/CL_AREA/latest", r.URL.Path)
		require.Equal(t, "sdmx-json", r.URL.Query().Get("format"))
		w.Write([]byte(`{"Codelist":[{"items":[
			{"id":"AR","names":[{"value":"Argentina"}]},
			{"id":"WB_LIC","names":[{"value":"WB: Low income countries"}]}
		]}]}`))
	}))
	defer srv.Close()

	countries, err := Countries(context.Background(), newTestClient(), srv.URL+"/")
	require.NoError(t, err)
	// Entries come back verbatim; aggregate filtering is the assembler's job.
	require.Len(t, countries, 2)
	assert.Equal(t, "AR", countries[0].ID)
	assert.Equal(t, "Argentina", countries[0].Name())
	assert.Equal(t, "WB: Low income countries", countries[1].Name())
}

func TestCountries_EmptyCodelist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Codelist":[]}`))
	}))
	defer srv.Close()

	_, err := Countries(context.Background(), newTestClient(), srv.URL+"/")
	assert.Error(t, err)
}

func TestResolveEndpoints(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Path is /data/UNESCO,<id>/
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/data/UNESCO,"), "/")
		requested = append(requested, id)
		require.Equal(t, "structureonly", r.URL.Query().Get("detail"))
		require.Equal(t, "true", r.URL.Query().Get("includeMetrics"))
		w.Write([]byte(`{"structure":{
			"name":"Indicator for ` + id + `",
			"dimensions":{"observation":[
				{"id":"STAT_UNIT"},{"id":"UNIT_MEASURE"},{"id":"REF_AREA"},{"id":"TIME_PERIOD"}
			]}
		}}`))
	}))
	defer srv.Close()

	endpoints := map[string]string{
		"EDU_FINANCE": "http://uis.unesco.org/en/topic/education-finance",
		"DEM_ECO":     " ",
	}
	meta, err := ResolveEndpoints(context.Background(), newTestClient(), srv.URL+"/", endpoints)
	require.NoError(t, err)

	// Sorted id order regardless of map insertion order.
	assert.Equal(t, []string{"DEM_ECO", "EDU_FINANCE"}, requested)

	fin := meta["EDU_FINANCE"]
	assert.Equal(t, "Indicator for EDU_FINANCE", fin.Indicator)
	assert.Equal(t, srv.URL+"/data/UNESCO,EDU_FINANCE/..%s.?", fin.URLTemplate)
	assert.Equal(t, "http://uis.unesco.org/en/topic/education-finance", fin.InfoURL)
	assert.Equal(t, srv.URL+"/data/UNESCO,EDU_FINANCE/..AR.?", fin.StructureURL("AR"))
	assert.Equal(t, srv.URL+"/data/UNESCO,EDU_FINANCE/..AR.?format=csv", fin.CSVURL("AR"))
}

func TestSortedIDs(t *testing.T) {
	meta := map[string]EndpointMetadata{"EDU_FINANCE": {}, "DEM_ECO": {}, "SDG4": {}}
	assert.Equal(t, []string{"DEM_ECO", "EDU_FINANCE", "SDG4"}, SortedIDs(meta))

	raw := map[string]string{"SDG4": " ", "EDU_NON_FINANCE": "http://x"}
	assert.Equal(t, []string{"EDU_NON_FINANCE", "SDG4"}, SortedIDs(raw))
}

// jsonGetterFunc adapts a function to the JSONGetter interface.
type jsonGetterFunc func(ctx context.Context, url string, v any) (bool, error)

func (f jsonGetterFunc) GetJSON(ctx context.Context, url string, v any) (bool, error) {
	return f(ctx, url, v)
}

func TestTimePeriods(t *testing.T) {
	g := jsonGetterFunc(func(ctx context.Context, url string, v any) (bool, error) {
		require.Equal(t, "http://yyyy/data/UNESCO,EDU_FINANCE/..AR.?"+structureSuffix, url)
		return true, json.Unmarshal([]byte(`{"structure":{"dimensions":{"observation":[
			{"id":"SEX","values":[{"id":"M","actualObs":9}]},
			{"id":"TIME_PERIOD","values":[
				{"id":"2013","actualObs":700},
				{"id":"2014","actualObs":800}
			]}
		]}}}`), v)
	})

	periods, ok, err := TimePeriods(context.Background(), g, "http://yyyy/data/UNESCO,EDU_FINANCE/..AR.?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[int]int{2013: 700, 2014: 800}, periods)
}

func TestTimePeriods_NotFound(t *testing.T) {
	g := jsonGetterFunc(func(ctx context.Context, url string, v any) (bool, error) {
		return false, nil
	})
	periods, ok, err := TimePeriods(context.Background(), g, "http://yyyy/?")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, periods)
}

func TestTimePeriods_BadYear(t *testing.T) {
	g := jsonGetterFunc(func(ctx context.Context, url string, v any) (bool, error) {
		return true, json.Unmarshal([]byte(`{"structure":{"dimensions":{"observation":[
			{"id":"TIME_PERIOD","values":[{"id":"not-a-year","actualObs":1}]}
		]}}}`), v)
	})
	_, _, err := TimePeriods(context.Background(), g, "http://yyyy/?")
	assert.Error(t, err)
}
