package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/orest-d/hdx-scraper-unesco/internal/chunk"
	"github.com/orest-d/hdx-scraper-unesco/internal/country"
	"github.com/orest-d/hdx-scraper-unesco/internal/dataset"
	"github.com/orest-d/hdx-scraper-unesco/internal/provider/uis"
	"github.com/orest-d/hdx-scraper-unesco/internal/table"
)

const showcaseImageURL = "http://www.tellmaps.com/uis/internal/assets/uisheader-en.png"

// nonCountryPrefixes mark codelist entries that are programme or regional
// aggregates rather than countries.
var nonCountryPrefixes = []string{
	"WB: ", "SDG:", "MDG:", "UIS:", "EFA:", "GEMR:", "AIMS:", "UNICEF:", "UNESCO:",
}

// Getter is the retrying fetch surface the assembler depends on. ok=false
// reports a missing remote document, to be skipped rather than failed.
type Getter interface {
	GetJSON(ctx context.Context, url string, v any) (bool, error)
	GetBytes(ctx context.Context, url string) (data []byte, ok bool, err error)
	FullURL(url string) string
}

// Options carry the per-run pipeline settings.
type Options struct {
	OutputFolder    string
	MaxObservations int
	MergeResources  bool
}

// Generate builds the dataset and showcase for one codelist entry. Both are
// nil for every skip condition: non-country entries, unresolvable ISO3
// codes, and countries yielding zero resources. A non-nil error means an
// unrecognized failure aborted this country's processing.
func Generate(ctx context.Context, g Getter, lookup country.Lookup, c uis.Country, endpoints map[string]uis.EndpointMetadata, opts Options, logger *slog.Logger) (*dataset.Dataset, *dataset.Showcase, error) {
	name := c.Name()
	if isNonCountry(name) {
		logger.Info("Ignoring non-country entry", "name", name)
		return nil, nil, nil
	}
	iso3, ok := lookup.ISO3FromISO2(c.ID)
	if !ok {
		iso3, ok = lookup.ISO3Fuzzy(name)
		if !ok {
			logger.Error("Cannot resolve ISO3 code", "country", name, "iso2", c.ID)
			return nil, nil, nil
		}
		logger.Info("Matched country by name", "country", name, "iso3", iso3)
	}

	slugName := slug.Make(fmt.Sprintf("UNESCO indicators for %s", name))
	title := fmt.Sprintf("%s - Sustainable development, Education, Demographic and Socioeconomic Indicators", name)
	ds := dataset.New(slugName, title, iso3)

	earliest, latest := 0, 0
	for _, id := range uis.SortedIDs(endpoints) {
		meta := endpoints[id]
		periods, found, err := uis.TimePeriods(ctx, g, meta.StructureURL(c.ID))
		if err != nil {
			return nil, nil, fmt.Errorf("endpoint %s: %w", id, err)
		}
		if !found || len(periods) == 0 {
			logger.Warn("No time periods", "endpoint", meta.Indicator, "country", name)
			continue
		}

		for year := range periods {
			if earliest == 0 || year < earliest {
				earliest = year
			}
			if year > latest {
				latest = year
			}
		}

		chunks := chunk.Partition(periods, opts.MaxObservations)
		csvURL := meta.CSVURL(c.ID)
		description := resourceDescription(meta.Indicator, meta.InfoURL)

		if opts.MergeResources {
			if err := mergeEndpoint(ctx, g, ds, meta, chunks, csvURL, description, name, opts, logger); err != nil {
				return nil, nil, fmt.Errorf("endpoint %s: %w", id, err)
			}
		} else {
			for _, ch := range chunks {
				ds.AddResource(linkResource(g, meta.Indicator, description, csvURL, ch))
			}
		}
	}

	if len(ds.Resources) == 0 {
		logger.Error("No resources created", "country", name)
		return nil, nil, nil
	}
	ds.SetYearRange(earliest, latest)

	showcase := &dataset.Showcase{
		Name:     slugName + "-showcase",
		Title:    fmt.Sprintf("Indicators for %s", name),
		Notes:    fmt.Sprintf("Education, literacy and other indicators for %s", name),
		URL:      fmt.Sprintf("http://uis.unesco.org/en/country/%s", c.ID),
		ImageURL: showcaseImageURL,
		Tags:     dataset.Tags,
	}
	return ds, showcase, nil
}

// mergeEndpoint downloads every chunk oldest-first, concatenates the raw
// tables, normalizes and writes one CSV file, and adds its file resource.
// Chunks whose export is missing are skipped; the remaining chunks still
// merge into a partial file.
func mergeEndpoint(ctx context.Context, g Getter, ds *dataset.Dataset, meta uis.EndpointMetadata, chunks []chunk.Chunk, csvURL, description, countryName string, opts Options, logger *slog.Logger) error {
	var merged *table.Table
	for i := len(chunks) - 1; i >= 0; i-- {
		data, ok, err := g.GetBytes(ctx, chunkURL(csvURL, chunks[i]))
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("Chunk export missing, continuing with partial data",
				"endpoint", meta.Indicator, "start", chunks[i].Start, "end", chunks[i].End)
			continue
		}
		t, err := table.ReadCSV(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("chunk %d-%d: %w", chunks[i].Start, chunks[i].End, err)
		}
		if merged == nil {
			merged = &t
		} else {
			merged.AppendRows(t)
		}
	}
	if merged == nil {
		return nil
	}

	normalized := table.Normalize(*merged, false)
	path := filepath.Join(opts.OutputFolder, csvFileName(countryName, meta.Indicator))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := normalized.WriteCSV(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	ds.AddResource(dataset.Resource{
		Name:        meta.Indicator,
		Description: description,
		Format:      "csv",
		FilePath:    path,
	})
	return nil
}

// Run drives the full pipeline over every codelist entry sequentially. emit
// receives each finished dataset/showcase pair; the catalog upload lives
// behind it. Skip conditions are recoverable, but an unrecognized fetch or
// emit failure aborts the whole run: the tallies so far come back alongside
// the error.
func Run(ctx context.Context, g Getter, lookup country.Lookup, countries []uis.Country, endpoints map[string]uis.EndpointMetadata, opts Options, emit func(*dataset.Dataset, *dataset.Showcase) error, logger *slog.Logger) (Result, error) {
	var result Result
	for _, c := range countries {
		if err := ctx.Err(); err != nil {
			result.AddErrorf("run aborted: %v", err)
			return result, err
		}
		ds, sc, err := Generate(ctx, g, lookup, c, endpoints, opts, logger)
		if err != nil {
			err = fmt.Errorf("country %s: %w", c.Name(), err)
			result.AddErrorf("%v", err)
			return result, err
		}
		if ds == nil {
			result.CountriesSkipped++
			continue
		}
		result.DatasetsBuilt++
		result.ResourcesBuilt += len(ds.Resources)
		for _, r := range ds.Resources {
			if r.FilePath != "" {
				result.FilesWritten++
			}
		}
		if emit != nil {
			if err := emit(ds, sc); err != nil {
				err = fmt.Errorf("emit %s: %w", ds.Name, err)
				result.AddErrorf("%v", err)
				return result, err
			}
		}
		logger.Info("Country done", "country", c.Name(), "resources", len(ds.Resources))
	}
	return result, nil
}

// --------------------------------------------------------------------------
// Pure helpers — explicit parameters, no loop-variable capture
// --------------------------------------------------------------------------

// chunkURL appends the inclusive year range to the CSV export prefix.
func chunkURL(csvURL string, ch chunk.Chunk) string {
	return fmt.Sprintf("%s&startPeriod=%d&endPeriod=%d", csvURL, ch.Start, ch.End)
}

// linkResource builds the direct-download resource for one chunk.
func linkResource(g Getter, indicator, description, csvURL string, ch chunk.Chunk) dataset.Resource {
	return dataset.Resource{
		Name:        fmt.Sprintf("%s (%d-%d)", indicator, ch.Start, ch.End),
		Description: description,
		Format:      "csv",
		URL:         g.FullURL(chunkURL(csvURL, ch)),
	}
}

// resourceDescription renders the save hint plus the endpoint's info link,
// when it has one.
func resourceDescription(indicator, infoURL string) string {
	description := infoURL
	if strings.TrimSpace(infoURL) != "" {
		description = fmt.Sprintf("[Info on %s](%s)", indicator, infoURL)
	}
	return "To save, right click download button & click Save Link/Target As  \n" + description
}

// csvFileName builds the output file name, spaces replaced with hyphens.
func csvFileName(countryName, indicator string) string {
	return strings.ReplaceAll(fmt.Sprintf("UNESCO_%s_%s.csv", countryName, indicator), " ", "-")
}

func isNonCountry(name string) bool {
	for _, prefix := range nonCountryPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
