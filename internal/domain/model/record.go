// Package model contains domain models passed between layers.
package model

import (
	"cmp"
	"strings"
)

// Columns names the seven record fields in display and file order.
var Columns = []string{"Horse_ID", "Horse_Name", "Jockey_Name", "Age", "Breed", "Race_Record", "Group"} //nolint:gochecknoglobals // fixed layout

// Record is a single horse entry in the roster.
type Record struct {
	ID      string // unique identifier, numerically ordered when possible
	Name    string // horse name
	Jockey  string // jockey name
	Age     string // age as entered
	Breed   string // breed
	History string // free-form race record, e.g. "1st, 3rd, 2nd"
	Group   string // group label, one of the configured GroupSet
}

// Fields holds the mutable part of a Record used by updates.
type Fields struct {
	Name    string
	Jockey  string
	Age     string
	Breed   string
	History string
	Group   string
}

// Fields returns the mutable fields of r.
func (r Record) Fields() Fields {
	return Fields{
		Name:    r.Name,
		Jockey:  r.Jockey,
		Age:     r.Age,
		Breed:   r.Breed,
		History: r.History,
		Group:   r.Group,
	}
}

// WithFields returns a copy of r with every mutable field replaced by f.
// The identifier is kept.
func (r Record) WithFields(f Fields) Record {
	return Record{
		ID:      r.ID,
		Name:    f.Name,
		Jockey:  f.Jockey,
		Age:     f.Age,
		Breed:   f.Breed,
		History: f.History,
		Group:   f.Group,
	}
}

// Values returns the record's fields in Columns order.
func (r Record) Values() []string {
	return []string{r.ID, r.Name, r.Jockey, r.Age, r.Breed, r.History, r.Group}
}

// CompareIDs orders identifiers numerically when both are integers, of any
// length. Numeric identifiers sort before non-numeric ones, which compare
// as strings.
func CompareIDs(a, b string) int {
	na, okA := parseNumericID(a)
	nb, okB := parseNumericID(b)
	switch {
	case okA && okB:
		return na.compare(nb)
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// numericID is an integer identifier kept as its digits.
type numericID struct {
	neg    bool
	digits string // no leading zeros; "0" for zero
}

func parseNumericID(s string) (numericID, bool) {
	s = strings.TrimSpace(s)
	var n numericID
	switch {
	case strings.HasPrefix(s, "-"):
		n.neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return numericID{}, false
	}
	n.digits = strings.TrimLeft(s, "0")
	if n.digits == "" {
		n.digits = "0"
		n.neg = false
	}
	return n, true
}

func (n numericID) compare(o numericID) int {
	if n.neg != o.neg {
		if n.neg {
			return -1
		}
		return 1
	}
	c := cmp.Compare(len(n.digits), len(o.digits))
	if c == 0 {
		c = strings.Compare(n.digits, o.digits)
	}
	if n.neg {
		return -c
	}
	return c
}
