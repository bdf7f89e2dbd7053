package repository

import "github.com/okian/rapidrun/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithGroups sets the valid group labels.
func WithGroups(groups model.GroupSet) Option {
	return func(s *MemoryStore) {
		if len(groups.Labels()) > 0 {
			s.groups = groups
		}
	}
}

// WithMetrics toggles store metrics recording.
func WithMetrics(enabled bool) Option {
	return func(s *MemoryStore) {
		s.metricsEnabled = enabled
	}
}
