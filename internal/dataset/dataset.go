// Package dataset holds the catalog records the pipeline emits: one dataset
// with its resources, plus a companion showcase, per country. Persisting
// them to the catalog platform is the caller's concern.
package dataset

import "fmt"

// HDX identities owning every UNESCO dataset.
const (
	MaintainerID    = "196196be-6037-4488-8b71-d786adf4c081"
	OrganizationID  = "18f2d467-dcf8-4b7e-bffa-b3c338ba3a7c"
	UpdateFrequency = "Every year"
)

// Tags is the fixed tag set applied to every dataset and showcase.
var Tags = []string{"indicators", "sustainable development", "demographics", "socioeconomics", "education"}

// Resource describes either a direct-download link (URL set) or a local file
// to upload (FilePath set). Immutable once added to a dataset.
type Resource struct {
	Name        string
	Description string
	Format      string
	URL         string
	FilePath    string
}

// Dataset is the per-country aggregate handed to the catalog.
type Dataset struct {
	Name            string // slug
	Title           string
	Maintainer      string
	Organization    string
	Subnational     bool
	LocationISO3    string
	UpdateFrequency string
	Tags            []string
	DateRange       string // "01/01/<earliest>-12/31/<latest>"
	Resources       []Resource
}

// New creates a dataset with the fixed UNESCO ownership fields.
func New(name, title, iso3 string) *Dataset {
	return &Dataset{
		Name:            name,
		Title:           title,
		Maintainer:      MaintainerID,
		Organization:    OrganizationID,
		Subnational:     false,
		LocationISO3:    iso3,
		UpdateFrequency: UpdateFrequency,
		Tags:            Tags,
	}
}

// AddResource appends a resource, preserving insertion order.
func (d *Dataset) AddResource(r Resource) {
	d.Resources = append(d.Resources, r)
}

// SetYearRange records the dataset's declared date coverage.
func (d *Dataset) SetYearRange(earliest, latest int) {
	d.DateRange = fmt.Sprintf("01/01/%d-12/31/%d", earliest, latest)
}

// Showcase is the companion record pointing at the country's public
// indicator page.
type Showcase struct {
	Name     string
	Title    string
	Notes    string
	URL      string
	ImageURL string
	Tags     []string
}
