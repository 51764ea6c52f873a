package catalog

import (
	"sort"
	"strings"
)

// Find returns the last entry with the given id. With PolicyAllow a catalog
// may hold several; the most recent wins.
func Find(entries []Entry, id string) (Entry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].ID == id {
			return entries[i], true
		}
	}
	return Entry{}, false
}

// Search returns entries whose id, name, or tags contain query, case-insensitively.
func Search(entries []Entry, query string) []Entry {
	if query == "" {
		return entries
	}

	q := strings.ToLower(query)
	var results []Entry
	for _, e := range entries {
		if matches(e, q) {
			results = append(results, e)
		}
	}
	return results
}

// FilterTag returns entries carrying tag, compared case-insensitively.
func FilterTag(entries []Entry, tag string) []Entry {
	if tag == "" {
		return entries
	}

	t := strings.ToLower(tag)
	var results []Entry
	for _, e := range entries {
		for _, et := range e.Tags {
			if strings.ToLower(et) == t {
				results = append(results, e)
				break
			}
		}
	}
	return results
}

// Tags returns a deduplicated, sorted list of all tags in the catalog.
func Tags(entries []Entry) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, e := range entries {
		for _, t := range e.Tags {
			lower := strings.ToLower(t)
			if !seen[lower] {
				seen[lower] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func matches(e Entry, query string) bool {
	if strings.Contains(strings.ToLower(e.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(e.ID), query) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
