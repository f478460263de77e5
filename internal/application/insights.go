package application

import "github.com/ericfisherdev/govscan/internal/domain/model"

// ComputeInsights summarizes records, which are expected to be the currently
// filtered view. An empty input reports HasData=false instead of failing.
func ComputeInsights(records []model.RepositoryRecord) model.Insights {
	ins := model.Insights{Total: len(records)}
	if len(records) == 0 {
		return ins
	}
	ins.HasData = true

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if r.UpdatedAt.After(ins.LatestUpdate) {
			ins.LatestUpdate = r.UpdatedAt
		}
		if r.Language == "" {
			continue
		}
		if counts[r.Language] == 0 {
			order = append(order, r.Language)
		}
		counts[r.Language]++
	}

	// Ties go to the language encountered first.
	best := 0
	for _, lang := range order {
		if counts[lang] > best {
			best = counts[lang]
			ins.MostCommonLanguage = lang
		}
	}

	return ins
}
