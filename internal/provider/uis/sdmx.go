package uis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// structureSuffix selects the structure-only SDMX document with observation
// counts included.
const structureSuffix = "format=sdmx-json&detail=structureonly&includeMetrics=true"

// countryDimension is the dimension id carrying the reporting country.
const countryDimension = "REF_AREA"

// --------------------------------------------------------------------------
// SDMX document shapes
// --------------------------------------------------------------------------

// Country is one entry of the CL_AREA codelist. The codelist mixes real
// countries with regional and programme aggregates; filtering those out is
// the assembler's job, not this package's.
type Country struct {
	ID    string        `json:"id"` // ISO2 code for real countries
	Names []CountryName `json:"names"`
}

// CountryName is one localized name of a codelist entry.
type CountryName struct {
	Value string `json:"value"`
}

// Name returns the entry's primary display name.
func (c Country) Name() string {
	if len(c.Names) == 0 {
		return ""
	}
	return c.Names[0].Value
}

type codelistResponse struct {
	Codelist []struct {
		Items []Country `json:"items"`
	} `json:"Codelist"`
}

type structureResponse struct {
	Structure struct {
		Name       string `json:"name"`
		Dimensions struct {
			Observation []dimension `json:"observation"`
		} `json:"dimensions"`
	} `json:"structure"`
}

type dimension struct {
	ID     string           `json:"id"`
	Values []dimensionValue `json:"values"`
}

type dimensionValue struct {
	ID        string `json:"id"`
	ActualObs int    `json:"actualObs"`
}

// --------------------------------------------------------------------------
// EndpointMetadata
// --------------------------------------------------------------------------

// EndpointMetadata describes one UIS statistical domain. URLTemplate has a
// single %s placeholder for the ISO2 country code and ends with "?", forming
// the stable prefix of every per-country data request.
type EndpointMetadata struct {
	Indicator   string
	URLTemplate string
	InfoURL     string
}

// StructureURL fills the template with a country code.
func (m EndpointMetadata) StructureURL(iso2 string) string {
	return fmt.Sprintf(m.URLTemplate, iso2)
}

// CSVURL is the CSV export prefix for a country; year-range parameters are
// appended by the caller.
func (m EndpointMetadata) CSVURL(iso2 string) string {
	return m.StructureURL(iso2) + "format=csv"
}

// --------------------------------------------------------------------------
// Resolvers
// --------------------------------------------------------------------------

// Countries fetches the master CL_AREA codelist and returns its entries
// verbatim.
func Countries(ctx context.Context, c *Client, baseURL string) ([]Country, error) {
	var doc codelistResponse
	u := baseURL + "codelist/UNESCO/CL_AREA/latest?format=sdmx-json"
	if err := c.GetJSON(ctx, u, &doc); err != nil {
		return nil, fmt.Errorf("fetch country codelist: %w", err)
	}
	if len(doc.Codelist) == 0 {
		return nil, fmt.Errorf("country codelist at %s is empty", u)
	}
	return doc.Codelist[0].Items, nil
}

// ResolveEndpoints fetches structure metadata for each endpoint id and
// builds its URL template. Endpoints are processed in sorted id order so
// downstream resource ordering is deterministic.
func ResolveEndpoints(ctx context.Context, c *Client, baseURL string, endpoints map[string]string) (map[string]EndpointMetadata, error) {
	resolved := make(map[string]EndpointMetadata, len(endpoints))
	for _, id := range SortedIDs(endpoints) {
		baseDataURL := fmt.Sprintf("%sdata/UNESCO,%s/", baseURL, id)
		var doc structureResponse
		if err := c.GetJSON(ctx, baseDataURL+"?"+structureSuffix, &doc); err != nil {
			return nil, fmt.Errorf("fetch structure for endpoint %s: %w", id, err)
		}

		var b strings.Builder
		b.WriteString(baseDataURL)
		for _, dim := range doc.Structure.Dimensions.Observation {
			if dim.ID == countryDimension {
				b.WriteString("%s")
			} else {
				b.WriteString(".")
			}
		}
		b.WriteString("?")

		resolved[id] = EndpointMetadata{
			Indicator:   doc.Structure.Name,
			URLTemplate: b.String(),
			InfoURL:     endpoints[id],
		}
	}
	return resolved, nil
}

// SortedIDs returns endpoint ids in the deterministic processing order.
func SortedIDs[V any](endpoints map[string]V) []string {
	ids := make([]string, 0, len(endpoints))
	for id := range endpoints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// JSONGetter is the subset of Retryer needed to fetch per-country structure
// documents.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, v any) (bool, error)
}

// TimePeriods fetches the structure-only document for a filled URL template
// and returns the observation count per year. ok is false when the endpoint
// has no document for the country.
func TimePeriods(ctx context.Context, g JSONGetter, structureURL string) (map[int]int, bool, error) {
	var doc structureResponse
	ok, err := g.GetJSON(ctx, structureURL+structureSuffix, &doc)
	if err != nil || !ok {
		return nil, ok, err
	}
	periods := make(map[int]int)
	for _, dim := range doc.Structure.Dimensions.Observation {
		if dim.ID != "TIME_PERIOD" {
			continue
		}
		for _, v := range dim.Values {
			year, err := strconv.Atoi(v.ID)
			if err != nil {
				return nil, true, fmt.Errorf("parse time period %q: %w", v.ID, err)
			}
			periods[year] = v.ActualObs
		}
	}
	return periods, true, nil
}
