// Package roster arranges records into group sections for display and
// persistence.
package roster

import (
	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/internal/domain/ordering"
)

// Section is one group with its records ordered by identifier.
type Section struct {
	Group   string
	Records []model.Record
}

// Group partitions records by group label. Sections are ordered by label
// and records within a section by identifier.
func Group(records []model.Record) []Section {
	byGroup := make(map[string][]model.Record)
	labels := make([]string, 0)
	for _, rec := range records {
		if _, ok := byGroup[rec.Group]; !ok {
			labels = append(labels, rec.Group)
		}
		byGroup[rec.Group] = append(byGroup[rec.Group], rec)
	}

	sections := make([]Section, 0, len(labels))
	for _, label := range ordering.SortBy(labels, ordering.Identity[string]) {
		sections = append(sections, Section{
			Group:   label,
			Records: ordering.SortFunc(byGroup[label], byID),
		})
	}
	return sections
}

// Flatten concatenates the sections back into a single sequence.
func Flatten(sections []Section) []model.Record {
	var out []model.Record
	for _, s := range sections {
		out = append(out, s.Records...)
	}
	return out
}

func byID(a, b model.Record) int {
	return model.CompareIDs(a.ID, b.ID)
}
