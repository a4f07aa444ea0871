// Package catalog holds the static destination lookup tables used to turn
// human-readable destination, group and theme names into the canonical
// numeric identifiers the offer engine understands.
//
// The tables ship as a single embedded, versioned data resource; exactly one
// catalog version is selected at startup and is immutable afterwards, so a
// Catalog is safe to share across goroutines without synchronization.
package catalog

import (
	"fmt"
	"sort"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalogs.yaml
var catalogData []byte

// DefaultVersion is the catalog selected when configuration names none.
const DefaultVersion = "standard"

// group is the on-disk shape of a named destination collection.
type group struct {
	ID      int      `yaml:"id"`
	Members []string `yaml:"members"`
}

// catalogFile mirrors the embedded YAML document.
type catalogFile struct {
	Catalogs map[string]catalogDoc `yaml:"catalogs"`
}

type catalogDoc struct {
	Destinations map[string]int    `yaml:"destinations"`
	Groups       map[string]group  `yaml:"groups"`
	Themes       map[string]group  `yaml:"themes"`
	Facilities   map[string]string `yaml:"facilities"`
}

// Catalog maps destination, group, theme and facility names onto the
// identifiers used by the travel-offer APIs. Within one catalog instance a
// destination name maps to at most one ID.
type Catalog struct {
	version      string
	destinations map[string]int
	groups       map[string]group
	themes       map[string]group
	facilities   map[string]string
}

// Load parses the embedded catalog resource and returns the catalog for the
// given version. An empty version selects DefaultVersion; an unknown version
// is an error so misconfiguration surfaces at startup rather than as silent
// empty lookups.
func Load(version string) (*Catalog, error) {
	if version == "" {
		version = DefaultVersion
	}

	var file catalogFile
	if err := yaml.Unmarshal(catalogData, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog data: %w", err)
	}

	doc, ok := file.Catalogs[version]
	if !ok {
		known := make([]string, 0, len(file.Catalogs))
		for v := range file.Catalogs {
			known = append(known, v)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown catalog version %q (have %v)", version, known)
	}

	return &Catalog{
		version:      version,
		destinations: doc.Destinations,
		groups:       doc.Groups,
		themes:       doc.Themes,
		facilities:   doc.Facilities,
	}, nil
}

// Version returns the name of the loaded catalog version.
func (c *Catalog) Version() string { return c.version }

// DestinationID returns the canonical numeric ID for a destination name.
func (c *Catalog) DestinationID(name string) (int, bool) {
	id, ok := c.destinations[name]
	return id, ok
}

// GroupID returns the numeric ID of a destination group.
func (c *Catalog) GroupID(name string) (int, bool) {
	g, ok := c.groups[name]
	if !ok {
		return 0, false
	}
	return g.ID, true
}

// GroupMembers returns the destination names belonging to a group. An unknown
// group yields an empty list, never an error.
func (c *Catalog) GroupMembers(name string) []string {
	return append([]string(nil), c.groups[name].Members...)
}

// ThemeID returns the numeric ID of a destination theme.
func (c *Catalog) ThemeID(name string) (int, bool) {
	t, ok := c.themes[name]
	if !ok {
		return 0, false
	}
	return t.ID, true
}

// ThemeMembers returns the destination names tagged with a theme. An unknown
// theme yields an empty list, never an error.
func (c *Catalog) ThemeMembers(name string) []string {
	return append([]string(nil), c.themes[name].Members...)
}

// FacilityIDs converts hotel facility names to their string identifiers,
// dropping names the catalog does not know.
func (c *Catalog) FacilityIDs(names []string) []string {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := c.facilities[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
