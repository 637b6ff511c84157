// Package search implements listing filtering, sorting and
// pagination as pure functions over an in-memory snapshot.  Search
// never issues a backend round-trip; the handler feeds it the
// catalog's current view.
package search

import (
	"sort"
	"strings"

	"github.com/minhngvn/scholarship-hub/internal/model"
)

// Page size bounds.  The UI offers 10/50/100 per page.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Query holds the filter and pagination parameters for one search.
type Query struct {
	Term     string   // free-text term, case-insensitive substring
	Tags     []string // selected tag keys; empty means no tag filter
	Language string   // active locale ("en" or "vi") for text matching
	Page     int
	PageSize int
}

// Result is one page of matches plus the pagination frame.
type Result struct {
	Items      []model.Scholarship
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Matches reports whether the scholarship satisfies the query's
// filters: it must carry at least one selected tag (when any are
// selected) AND contain the term in the active-locale title,
// organization or description (when a term is given).
func Matches(s *model.Scholarship, q Query) bool {
	if len(q.Tags) > 0 && !hasAnyTag(s.Tags, q.Tags) {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(q.Term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Title.In(q.Language)), term) ||
		strings.Contains(strings.ToLower(s.Organization.In(q.Language)), term) ||
		strings.Contains(strings.ToLower(s.Description.In(q.Language)), term)
}

// Filter returns the scholarships matching q, sorted by upload date
// descending (newest first).  The input slice is not modified.
func Filter(items []model.Scholarship, q Query) []model.Scholarship {
	out := make([]model.Scholarship, 0, len(items))
	for i := range items {
		if Matches(&items[i], q) {
			out = append(out, items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateUploaded.After(out[j].DateUploaded)
	})
	return out
}

// Paginate slices the filtered results into the requested page.  The
// page size is clamped to [1, MaxPageSize] (zero means the default)
// and the page number is clamped into the valid range, so page 0 and
// pages past the end resolve to the nearest real page instead of
// erroring.
func Paginate(items []model.Scholarship, page, pageSize int) Result {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Result{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Run filters, sorts and paginates in one call.
func Run(items []model.Scholarship, q Query) Result {
	return Paginate(Filter(items, q), q.Page, q.PageSize)
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
