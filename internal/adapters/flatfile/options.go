package flatfile

import (
	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/pkg/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithGroups sets the labels accepted in section headers.
func WithGroups(groups model.GroupSet) Option {
	return func(s *Store) {
		if len(groups.Labels()) > 0 {
			s.groups = groups
		}
	}
}

// WithLogger sets the logger used to report skipped lines.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}
