// Package scrape drives the per-country pipeline: resolve the country, walk
// the endpoints in sorted order, chunk each year range, and assemble the
// dataset, resources and showcase records.
package scrape

import "fmt"

// Result tracks counts and errors from a scrape run.
type Result struct {
	DatasetsBuilt    int
	CountriesSkipped int
	ResourcesBuilt   int
	FilesWritten     int
	Errors           []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.DatasetsBuilt += other.DatasetsBuilt
	r.CountriesSkipped += other.CountriesSkipped
	r.ResourcesBuilt += other.ResourcesBuilt
	r.FilesWritten += other.FilesWritten
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"datasets=%d skipped=%d resources=%d files=%d errors=%d",
		r.DatasetsBuilt, r.CountriesSkipped,
		r.ResourcesBuilt, r.FilesWritten,
		len(r.Errors),
	)
}
