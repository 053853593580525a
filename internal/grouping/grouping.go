// Package grouping turns a flat set of extracted snippets into the
// key → version hierarchy consumed by the markdown processor.
//
// An unversioned snippet forms its own group. That group never overlaps a
// versioned one and is always sorted first.
package grouping

import (
	"fmt"
	"slices"
	"strings"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// Group partitions snippets by key and then by version range. Groups are
// returned sorted by key. Every language conflict and range overlap is
// collected; if any were found the result is a single *domain.GroupingError.
func Group(snippets []domain.Snippet) ([]domain.SnippetGroup, error) {
	byKey := make(map[string][]domain.Snippet)
	var keys []string
	for _, s := range snippets {
		if _, ok := byKey[s.Key]; !ok {
			keys = append(keys, s.Key)
		}
		byKey[s.Key] = append(byKey[s.Key], s)
	}
	slices.Sort(keys)

	var errs []string
	groups := make([]domain.SnippetGroup, 0, len(keys))
	for _, key := range keys {
		group, keyErrs := groupKey(key, byKey[key])
		errs = append(errs, keyErrs...)
		groups = append(groups, group)
	}

	if len(errs) > 0 {
		return nil, &domain.GroupingError{Errors: errs}
	}
	return groups, nil
}

func groupKey(key string, snippets []domain.Snippet) (domain.SnippetGroup, []string) {
	var (
		versions []domain.VersionGroup
		errs     []string
	)

	for _, s := range snippets {
		i := slices.IndexFunc(versions, func(vg domain.VersionGroup) bool {
			return version.EqualPtr(vg.Version, s.Version)
		})
		if i == -1 {
			versions = append(versions, domain.VersionGroup{Version: s.Version, Language: s.Language})
			i = len(versions) - 1
		}
		versions[i].Snippets = append(versions[i].Snippets, s)
	}

	for _, vg := range versions {
		if langs := languages(vg.Snippets); len(langs) > 1 {
			errs = append(errs, fmt.Sprintf("conflicting language for key %s at version %s: %s",
				key, version.FormatPtr(vg.Version), strings.Join(langs, ", ")))
		}
	}

	for i := 0; i < len(versions); i++ {
		for j := i + 1; j < len(versions); j++ {
			a, b := versions[i].Version, versions[j].Version
			if a == nil || b == nil {
				continue
			}
			if a.Overlaps(*b) {
				errs = append(errs, fmt.Sprintf("overlapping version ranges for key %s: %s, %s", key, a, b))
			}
		}
	}

	slices.SortStableFunc(versions, func(a, b domain.VersionGroup) int {
		return compareVersions(a.Version, b.Version)
	})

	return domain.SnippetGroup{
		Key:      key,
		Language: versions[0].Language,
		Versions: versions,
	}, errs
}

func languages(snippets []domain.Snippet) []string {
	var langs []string
	for _, s := range snippets {
		if !slices.Contains(langs, s.Language) {
			langs = append(langs, s.Language)
		}
	}
	return langs
}

// compareVersions orders the unversioned group first
func compareVersions(a, b *version.Range) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// Index maps each group by key for lookups.
func Index(groups []domain.SnippetGroup) map[string]domain.SnippetGroup {
	idx := make(map[string]domain.SnippetGroup, len(groups))
	for _, g := range groups {
		idx[g.Key] = g
	}
	return idx
}
