// Package service provides the session that ties the roster store, the
// data file and the final-round simulation together for one run of the
// program.
package service

import (
	"context"
	"fmt"

	"github.com/okian/rapidrun/internal/adapters/flatfile"
	repository "github.com/okian/rapidrun/internal/adapters/repository"
	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/internal/domain/roster"
	"github.com/okian/rapidrun/internal/domain/selection"
	"github.com/okian/rapidrun/internal/domain/timing"
	"github.com/okian/rapidrun/pkg/logger"
	"github.com/okian/rapidrun/pkg/metrics"
)

// Persistence is the data file contract the session depends on.
type Persistence interface {
	Load(ctx context.Context) (flatfile.LoadResult, error)
	Save(ctx context.Context, sections []roster.Section) error
}

// Session owns the roster and the state carried between menu commands.
type Session struct {
	store       repository.Store
	persistence Persistence
	selector    *selection.Selector
	timer       *timing.Timer
	logger      logger.Logger
	metricsFile string

	// lastSelection is the most recent draw; nil until Select runs.
	lastSelection *selection.Result
}

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithStore sets the record store.
func WithStore(store repository.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPersistence sets the data file adapter.
func WithPersistence(p Persistence) Option {
	return func(s *Session) {
		if p != nil {
			s.persistence = p
		}
	}
}

// WithSelector sets the selection engine.
func WithSelector(sel *selection.Selector) Option {
	return func(s *Session) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// WithTimer sets the timing engine.
func WithTimer(t *timing.Timer) Option {
	return func(s *Session) {
		if t != nil {
			s.timer = t
		}
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsFile sets the Prometheus textfile written on save and close.
func WithMetricsFile(path string) Option {
	return func(s *Session) {
		s.metricsFile = path
	}
}

// New constructs a Session. Without WithPersistence, Open and Save fail.
func New(opts ...Option) *Session {
	s := &Session{
		store:    repository.NewMemoryStore(),
		selector: selection.NewSelector(),
		timer:    timing.NewTimer(),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Groups returns the valid group labels.
func (s *Session) Groups() model.GroupSet {
	return s.store.Groups()
}

// Open replaces the roster with the contents of the data file and returns
// the lines that were skipped.
func (s *Session) Open(ctx context.Context) ([]*flatfile.LineError, error) {
	if s.persistence == nil {
		return nil, fmt.Errorf("open: %w", flatfile.ErrPathRequired)
	}
	res, err := s.persistence.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if err := s.store.Replace(ctx, res.Records); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	s.lastSelection = nil
	s.logger.Info(ctx, "roster loaded",
		logger.Int("records", len(res.Records)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Bool("created", res.Created),
	)
	return res.Skipped, nil
}

// Add registers a new record.
func (s *Session) Add(ctx context.Context, rec model.Record) error {
	if err := s.store.Add(ctx, rec); err != nil {
		s.logger.Debug(ctx, "add rejected", logger.String("id", rec.ID), logger.Error(err))
		return err
	}
	s.logger.Debug(ctx, "record added", logger.String("id", rec.ID))
	return nil
}

// Exists reports whether a record with id is present. Interactive callers
// use it to reject a duplicate before prompting for the remaining fields.
func (s *Session) Exists(ctx context.Context, id string) bool {
	_, err := s.store.Get(ctx, id)
	return err == nil
}

// Update overwrites the mutable fields of the record with id.
func (s *Session) Update(ctx context.Context, id string, fields model.Fields) error {
	if err := s.store.Update(ctx, id, fields); err != nil {
		s.logger.Debug(ctx, "update rejected", logger.String("id", id), logger.Error(err))
		return err
	}
	s.logger.Debug(ctx, "record updated", logger.String("id", id))
	return nil
}

// Delete removes the record with id.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Debug(ctx, "delete rejected", logger.String("id", id), logger.Error(err))
		return err
	}
	s.logger.Debug(ctx, "record deleted", logger.String("id", id))
	return nil
}

// View returns the roster grouped by label and ordered by identifier.
func (s *Session) View(ctx context.Context) []roster.Section {
	return roster.Group(s.store.All(ctx))
}

// Save writes the grouped roster to the data file.
func (s *Session) Save(ctx context.Context) error {
	if s.persistence == nil {
		return fmt.Errorf("save: %w", flatfile.ErrPathRequired)
	}
	if err := s.persistence.Save(ctx, s.View(ctx)); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	s.flushMetrics(ctx)
	return nil
}

// Select draws a fresh representative per group, discarding any previous
// selection.
func (s *Session) Select(ctx context.Context) (*selection.Result, error) {
	res, err := s.selector.Select(ctx, s.store.All(ctx))
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	s.lastSelection = res
	metrics.RecordSelection()
	s.logger.Info(ctx, "final round selected",
		logger.String("run", res.RunID),
		logger.Int("groups", res.Len()),
	)
	return res, nil
}

// Selection returns the last selection, if any.
func (s *Session) Selection() (*selection.Result, bool) {
	return s.lastSelection, s.lastSelection != nil
}

// ShowWinners assigns new finish times to the last selection and ranks it.
// Per-representative assignment failures are logged and returned alongside
// the standings of those that were timed.
func (s *Session) ShowWinners(ctx context.Context) ([]timing.Standing, error) {
	if s.lastSelection == nil {
		return nil, ErrNoSelectionYet
	}
	assignErr := s.timer.AssignDurations(ctx, s.lastSelection)
	if assignErr != nil {
		s.logger.Warn(ctx, "some finish times could not be assigned",
			logger.String("run", s.lastSelection.RunID),
			logger.Error(assignErr),
		)
	}
	standings := timing.Standings(timing.Rank(s.lastSelection))
	for _, st := range standings {
		s.logger.Debug(ctx, "placed",
			logger.String("run", s.lastSelection.RunID),
			logger.String("position", st.Position),
			logger.String("id", st.Representative.Record.ID),
			logger.Int("seconds", st.Representative.Seconds),
		)
	}
	return standings, assignErr
}

// VisualizeWinners ranks the times already assigned to the last selection
// without drawing new ones. Bars are rendered with Visualize.
func (s *Session) VisualizeWinners(ctx context.Context) ([]timing.Standing, error) {
	if s.lastSelection == nil {
		return nil, ErrNoSelectionYet
	}
	ranked := timing.Rank(s.lastSelection)
	if len(ranked) == 0 {
		return nil, ErrNotTimedYet
	}
	s.logger.Debug(ctx, "visualizing standings",
		logger.String("run", s.lastSelection.RunID),
		logger.Int("timed", len(ranked)),
	)
	return timing.Standings(ranked), nil
}

// Range returns the closed duration range used for finish times.
func (s *Session) Range() (int, int) {
	return s.timer.Range()
}

// Visualize renders a single representative's time bar.
func (s *Session) Visualize(rep *selection.Representative) string {
	return s.timer.Visualize(rep)
}

// Close flushes metrics. The roster is not saved implicitly.
func (s *Session) Close(ctx context.Context) {
	s.flushMetrics(ctx)
}

func (s *Session) flushMetrics(ctx context.Context) {
	if s.metricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(s.metricsFile, nil); err != nil {
		s.logger.Warn(ctx, "failed to write metrics textfile",
			logger.String("path", s.metricsFile),
			logger.Error(err),
		)
	}
}
