// Package timing assigns simulated finish durations to the selected
// representatives and ranks them.
package timing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/rapidrun/internal/domain/ordering"
	"github.com/okian/rapidrun/internal/domain/selection"
	"github.com/okian/rapidrun/pkg/metrics"
)

// Default timing configuration constants.
const (
	defaultMinSeconds = 0
	defaultMaxSeconds = 90
	defaultMarker     = "*"
	secondsPerMarker  = 10
)

// MaxSeconds is the largest duration a Timer accepts: one day.
const MaxSeconds = 24 * 60 * 60


// Option applies a configuration option to the Timer.
type Option func(*Timer)

// WithRange sets the closed range durations are drawn from. Ranges outside
// [0, MaxSeconds] are ignored.
func WithRange(minSeconds, maxSeconds int) Option {
	return func(t *Timer) {
		if minSeconds >= 0 && maxSeconds >= minSeconds && maxSeconds <= MaxSeconds {
			t.minSeconds = minSeconds
			t.maxSeconds = maxSeconds
		}
	}
}

// WithSource sets the randomness source.
func WithSource(src selection.Source) Option {
	return func(t *Timer) {
		if src != nil {
			t.src = src
		}
	}
}

// WithMarker sets the bar character used by Visualize.
func WithMarker(marker string) Option {
	return func(t *Timer) {
		if marker != "" {
			t.marker = marker
		}
	}
}

// Timer draws durations and orders representatives by them.
type Timer struct {
	minSeconds int
	maxSeconds int
	marker     string
	src        selection.Source
}

// NewTimer creates a Timer drawing from [0, 90] with a clock-seeded source.
func NewTimer(opts ...Option) *Timer {
	t := &Timer{
		minSeconds: defaultMinSeconds,
		maxSeconds: defaultMaxSeconds,
		marker:     defaultMarker,
		src:        selection.NewSource(0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Range returns the closed duration range.
func (t *Timer) Range() (int, int) {
	return t.minSeconds, t.maxSeconds
}

// AssignDurations draws a duration for every representative in res and
// attaches it in place. A malformed representative is skipped with an
// *AssignmentError; the rest of the batch is still timed. The returned
// error joins every per-item failure.
func (t *Timer) AssignDurations(ctx context.Context, res *selection.Result) error {
	if res == nil {
		return nil
	}
	var errs []error
	for _, rep := range res.Representatives {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.assign(rep); err != nil {
			metrics.RecordAssignmentError()
			errs = append(errs, err)
			continue
		}
		metrics.RecordDuration(rep.Seconds)
	}
	return errors.Join(errs...)
}

func (t *Timer) assign(rep *selection.Representative) error {
	if rep == nil {
		return &AssignmentError{Reason: "nil representative"}
	}
	if strings.TrimSpace(rep.Record.ID) == "" {
		rep.Timed = false
		return &AssignmentError{Group: rep.Group, Reason: "missing identifier"}
	}
	rep.Seconds = t.minSeconds + t.src.IntN(t.maxSeconds-t.minSeconds+1)
	rep.Timed = true
	return nil
}

// Rank orders the timed representatives of res by ascending duration.
// Ties keep group order. Untimed representatives are left out.
func Rank(res *selection.Result) []*selection.Representative {
	if res == nil {
		return nil
	}
	timed := make([]*selection.Representative, 0, len(res.Representatives))
	for _, rep := range res.Representatives {
		if rep != nil && rep.Timed {
			timed = append(timed, rep)
		}
	}
	return ordering.SortBy(timed, func(r *selection.Representative) int { return r.Seconds })
}

// Visualize renders a duration as one marker per full ten seconds, a
// space, and the duration: 45 -> "**** 45s", 5 -> " 5s".
func (t *Timer) Visualize(rep *selection.Representative) string {
	return Bar(rep.Seconds, t.marker)
}

// Bar is the formatting behind Visualize.
func Bar(seconds int, marker string) string {
	n := max(seconds/secondsPerMarker, 0)
	return strings.Repeat(marker, n) + " " + strconv.Itoa(seconds) + "s"
}

var podium = [...]string{"1st", "2nd", "3rd", "4th"} //nolint:gochecknoglobals // fixed labels

// Position labels a zero-based rank. Ranks past the podium fall back to
// the numeric English ordinal of rank+1 ("5th", "21st", "112th").
func Position(rank int) string {
	if rank >= 0 && rank < len(podium) {
		return podium[rank]
	}
	return Ordinal(rank + 1)
}

// Ordinal formats n with its English suffix.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Standing pairs a ranked representative with its position label.
type Standing struct {
	Position       string
	Representative *selection.Representative
}

// Standings labels an already ranked sequence.
func Standings(ranked []*selection.Representative) []Standing {
	out := make([]Standing, len(ranked))
	for i, rep := range ranked {
		out[i] = Standing{Position: Position(i), Representative: rep}
	}
	return out
}
