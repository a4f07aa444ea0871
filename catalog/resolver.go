package catalog

import "sort"

// Resolver expands destination names, destination groups and themes into
// canonical destination ID sets using a loaded Catalog. All methods drop
// unmapped names silently; resolving never fails.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a Resolver backed by the given catalog.
func NewResolver(c *Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// ResolveNames maps each destination name to its ID, dropping unknown names
// and duplicates while preserving first-seen order.
func (r *Resolver) ResolveNames(names []string) []int {
	ids := make([]int, 0, len(names))
	seen := make(map[int]bool, len(names))
	for _, name := range names {
		id, ok := r.catalog.DestinationID(name)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// ResolveGroups expands each group into its member destinations and unions
// the resolved IDs. Members missing from the destination table resolve to
// nothing without failing the expansion.
func (r *Resolver) ResolveGroups(groups []string) []int {
	var names []string
	for _, g := range groups {
		names = append(names, r.catalog.GroupMembers(g)...)
	}
	return r.ResolveNames(names)
}

// ResolveThemes returns the IDs of destinations tagged with every supplied
// theme: the member-name sets are intersected, not unioned. An empty theme
// list yields an empty result, not all destinations.
func (r *Resolver) ResolveThemes(themes []string) []int {
	if len(themes) == 0 {
		return nil
	}

	matching := make(map[string]bool)
	for _, name := range r.catalog.ThemeMembers(themes[0]) {
		matching[name] = true
	}
	for _, theme := range themes[1:] {
		members := make(map[string]bool)
		for _, name := range r.catalog.ThemeMembers(theme) {
			members[name] = true
		}
		for name := range matching {
			if !members[name] {
				delete(matching, name)
			}
		}
	}

	names := make([]string, 0, len(matching))
	for name := range matching {
		names = append(names, name)
	}
	sort.Strings(names)

	return r.ResolveNames(names)
}

// Resolve unions the outcomes of direct name resolution, group expansion and
// theme intersection into one sorted, deduplicated destination ID set.
func (r *Resolver) Resolve(names, groups, themes []string) []int {
	set := make(map[int]bool)
	for _, id := range r.ResolveNames(names) {
		set[id] = true
	}
	for _, id := range r.ResolveGroups(groups) {
		set[id] = true
	}
	for _, id := range r.ResolveThemes(themes) {
		set[id] = true
	}

	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}
