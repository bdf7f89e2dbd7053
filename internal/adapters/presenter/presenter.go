// Package presenter renders roster tables and final-round results for the
// console.
package presenter

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/internal/domain/roster"
	"github.com/okian/rapidrun/internal/domain/selection"
	"github.com/okian/rapidrun/internal/domain/timing"
)

// Presenter writes human-readable output to w.
type Presenter struct {
	w io.Writer
}

// New creates a Presenter writing to w.
func New(w io.Writer) *Presenter {
	return &Presenter{w: w}
}

// Roster prints one table per group section.
func (p *Presenter) Roster(sections []roster.Section) {
	if len(sections) == 0 {
		fmt.Fprintln(p.w, "No Horse Details in the File")
		return
	}
	for _, sec := range sections {
		fmt.Fprintf(p.w, "\nGroup: %s\n", sec.Group)

		table := tablewriter.NewWriter(p.w)
		table.SetHeader(model.Columns)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		for _, r := range sec.Records {
			table.Append(r.Values())
		}
		table.Render()
	}
}

// Selection prints the representative chosen for each group.
func (p *Presenter) Selection(res *selection.Result) {
	if res.Len() == 0 {
		fmt.Fprintln(p.w, "No horses available for selection")
		return
	}
	for _, rep := range res.Representatives {
		r := rep.Record
		fmt.Fprintf(p.w, "Group: %s, Selected Horse: %s %s (jockey %s, age %s, breed %s, record %s)\n",
			rep.Group, r.ID, r.Name, r.Jockey, r.Age, r.Breed, r.History)
	}
}

// Results prints the ranked winners with their places.
func (p *Presenter) Results(standings []timing.Standing) {
	fmt.Fprintln(p.w, "Final Round Results:")
	for _, s := range standings {
		fmt.Fprintf(p.w, "Group: %s\n", s.Representative.Group)
		fmt.Fprintf(p.w, "%s Place - %s\n", s.Position, s.Representative.Record.ID)
	}
}

// Visualized prints each winner's time bar with its place.
func (p *Presenter) Visualized(standings []timing.Standing, bar func(*selection.Representative) string) {
	fmt.Fprintln(p.w, "Final Round Results With Time Spent by them:")
	for _, s := range standings {
		fmt.Fprintf(p.w, "Horse %s: %s (%s Place)\n", s.Representative.Record.ID, bar(s.Representative), s.Position)
	}
}
