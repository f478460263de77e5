package application

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

// BuildView returns the records passing filter, sorted by stars descending.
// Dimensions combine with AND; values within a dimension with OR. An absent
// language never matches an active language filter. Equal star counts keep
// their input order. records is not modified.
func BuildView(records []model.RepositoryRecord, filter model.Filter) []model.RepositoryRecord {
	out := make([]model.RepositoryRecord, 0, len(records))
	for _, r := range records {
		if matches(r, filter) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stars > out[j].Stars
	})

	return out
}

func matches(r model.RepositoryRecord, f model.Filter) bool {
	if len(f.Languages) > 0 && (r.Language == "" || !slices.Contains(f.Languages, r.Language)) {
		return false
	}
	if len(f.Orgs) > 0 && (r.Org == "" || !slices.Contains(f.Orgs, r.Org)) {
		return false
	}
	if len(f.Years) > 0 && !slices.Contains(f.Years, r.UpdatedYear) {
		return false
	}
	return true
}

// Options lists the distinct filter values present in records: languages and
// orgs sorted, years most recent first. Absent languages are not offered.
func Options(records []model.RepositoryRecord) model.FilterOptions {
	langs := map[string]struct{}{}
	orgs := map[string]struct{}{}
	years := map[int]struct{}{}

	for _, r := range records {
		if r.Language != "" {
			langs[r.Language] = struct{}{}
		}
		if r.Org != "" {
			orgs[r.Org] = struct{}{}
		}
		years[r.UpdatedYear] = struct{}{}
	}

	opts := model.FilterOptions{
		Languages: sortedKeys(langs),
		Orgs:      sortedKeys(orgs),
		Years:     make([]int, 0, len(years)),
	}
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(opts.Years)))

	return opts
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseFilter reads the language, org and year query parameters. Each may be
// repeated or comma separated; blank values are ignored.
func ParseFilter(q url.Values) (model.Filter, error) {
	f := model.Filter{
		Languages: splitValues(q["language"]),
		Orgs:      splitValues(q["org"]),
	}

	for _, v := range splitValues(q["year"]) {
		y, err := strconv.Atoi(v)
		if err != nil {
			return model.Filter{}, fmt.Errorf("invalid year %q", v)
		}
		if !slices.Contains(f.Years, y) {
			f.Years = append(f.Years, y)
		}
	}

	return f, nil
}

// Query renders f back into query parameters accepted by ParseFilter.
func Query(f model.Filter) url.Values {
	q := url.Values{}
	for _, l := range f.Languages {
		q.Add("language", l)
	}
	for _, o := range f.Orgs {
		q.Add("org", o)
	}
	for _, y := range f.Years {
		q.Add("year", strconv.Itoa(y))
	}
	return q
}

func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	return out
}
