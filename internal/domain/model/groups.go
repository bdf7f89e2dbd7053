package model

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultGroups are the heat labels used when nothing else is configured.
var DefaultGroups = []string{"A", "B", "C", "D"} //nolint:gochecknoglobals // read-only defaults

// GroupSet is the fixed, finite set of valid group labels.
type GroupSet struct {
	labels []string
}

// NewGroupSet builds a GroupSet from labels. Labels are normalized and
// duplicates dropped; an empty input falls back to DefaultGroups.
func NewGroupSet(labels ...string) GroupSet {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		n := NormalizeGroup(l)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		out = append(out, DefaultGroups...)
	}
	return GroupSet{labels: out}
}

// NormalizeGroup trims and upper-cases a group label.
func NormalizeGroup(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// Labels returns a copy of the valid labels in configured order.
func (g GroupSet) Labels() []string {
	return slices.Clone(g.labels)
}

// Contains reports whether the normalized label is valid.
func (g GroupSet) Contains(label string) bool {
	return slices.Contains(g.labels, NormalizeGroup(label))
}

// Check is the pure validation used by interactive callers: it reports
// pass/fail together with the labels that would have passed.
func (g GroupSet) Check(label string) (bool, []string) {
	return g.Contains(label), g.Labels()
}

// Validate returns the normalized label, or ErrInvalidGroup.
func (g GroupSet) Validate(label string) (string, error) {
	n := NormalizeGroup(label)
	if !slices.Contains(g.labels, n) {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidGroup, label, strings.Join(g.labels, ", "))
	}
	return n, nil
}
