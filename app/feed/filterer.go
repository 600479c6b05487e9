package feed

import (
	"fmt"
	"strings"
)

var validFilterFields = map[string]bool{
	"title":      true,
	"summary":    true,
	"content":    true,
	"authors":    true,
	"link":       true,
	"categories": true,
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

func (f *Filterer) Run(items []Item, feedConfig *Config) []Item {
	if len(feedConfig.Filters) == 0 {
		return items
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		isFiltered, filterReason := f.applyFilters(item, feedConfig.Filters)
		item.IsFiltered = isFiltered
		item.FilterReason = filterReason
		filtered = append(filtered, item)
	}

	return filtered
}

func (f *Filterer) applyFilters(item Item, filters []ConfigFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(item Item, field string) string {
	entry := item.Entry

	switch field {
	case "title":
		return entry.Title.Value
	case "summary":
		return entry.Summary.Value
	case "content":
		if entry.Content == nil {
			return ""
		}
		return entry.Content.Value
	case "authors":
		names := make([]string, 0, len(entry.Authors))
		for _, author := range entry.Authors {
			names = append(names, author.Name)
		}
		return strings.Join(names, " ")
	case "link":
		return item.Link
	case "categories":
		terms := make([]string, 0, len(entry.Categories))
		for _, category := range entry.Categories {
			terms = append(terms, category.Term)
		}
		return strings.Join(terms, " ")
	default:
		return ""
	}
}
