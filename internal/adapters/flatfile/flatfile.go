// Package flatfile reads and writes the roster data file: a header line
// followed by "Group: <label>" sections of comma-separated records.
package flatfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/internal/domain/roster"
	"github.com/okian/rapidrun/pkg/logger"
	"github.com/okian/rapidrun/pkg/metrics"
)

// File layout constants.
const (
	sectionPrefix = "Group:"
	historyParts  = 3
	// id, name, jockey, age, breed, three history parts, group.
	fieldsPerLine = 5 + historyParts + 1
	filePerm      = 0o644
	dirPerm       = 0o755
	scanBufSize   = 64 * 1024
	maxLineSize   = 1024 * 1024
	nsPerMs       = 1e6
)

// Header lists the seven record columns.
var Header = model.Columns //nolint:gochecknoglobals // file format

// LoadResult is what a load produced.
type LoadResult struct {
	Records []model.Record
	Skipped []*LineError
	Created bool // the file did not exist and was created empty
}

// Store is the file-backed persistence adapter.
type Store struct {
	path   string
	groups model.GroupSet
	logger logger.Logger
}

// New creates a Store for path.
func New(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrPathRequired
	}
	s := &Store{
		path:   path,
		groups: model.NewGroupSet(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the data file location.
func (s *Store) Path() string { return s.path }

// Load reads every record from the data file. A missing file is created with
// just the header. Malformed lines are reported in the result and skipped.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordPersistenceLatency("load", float64(time.Since(start).Nanoseconds())/nsPerMs)
	}()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info(ctx, "data file not found, creating a new one", logger.String("path", s.path))
		if err := s.write(nil); err != nil {
			return LoadResult{}, err
		}
		return LoadResult{Created: true}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("open data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := s.decode(ctx, f)
	if err != nil {
		return LoadResult{}, err
	}

	for _, le := range res.Skipped {
		s.logger.Warn(ctx, "ignoring invalid line",
			logger.Int("line", le.Line),
			logger.String("reason", le.Reason),
			logger.String("content", le.Content),
		)
	}
	metrics.RecordSkippedLines(len(res.Skipped))
	s.logger.Debug(ctx, "data file loaded",
		logger.String("path", s.path),
		logger.Int("records", len(res.Records)),
		logger.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// decode reads the file one line at a time so a damaged line never spills
// into the lines after it.
func (s *Store) decode(ctx context.Context, r io.Reader) (LoadResult, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, scanBufSize), maxLineSize)

	var (
		res     LoadResult
		group   string
		inGroup bool
		line    int
		seen    = make(map[string]bool)
	)
	skip := func(content, reason string) {
		res.Skipped = append(res.Skipped, &LineError{Line: line, Content: content, Reason: reason})
	}

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return LoadResult{}, err
		}
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		if strings.HasPrefix(raw, sectionPrefix) {
			label, err := s.groups.Validate(strings.TrimPrefix(raw, sectionPrefix))
			group, inGroup = label, err == nil
			if err != nil {
				skip(raw, "unknown group")
			}
			continue
		}

		fields := splitLine(raw)
		if isHeader(fields) {
			continue
		}
		if !inGroup {
			skip(raw, "record outside a valid group section")
			continue
		}
		if len(fields) != fieldsPerLine {
			skip(raw, fmt.Sprintf("expected %d values, got %d", fieldsPerLine, len(fields)))
			continue
		}
		rec := decodeRecord(fields, group)
		if seen[rec.ID] {
			skip(raw, "duplicate identifier")
			continue
		}
		seen[rec.ID] = true
		res.Records = append(res.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return LoadResult{}, fmt.Errorf("read data file: %w", err)
	}
	return res, nil
}

// splitLine parses a single line as CSV so quoted values written by Save
// load back intact. A line that is not valid CSV, such as one with a stray
// quote, is split on plain commas instead.
func splitLine(line string) []string {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	fields, err := cr.Read()
	if err == nil {
		return fields
	}
	fields = strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func isHeader(fields []string) bool {
	return len(fields) == len(Header) && fields[0] == Header[0] && fields[len(fields)-1] == Header[len(Header)-1]
}

// decodeRecord maps a nine-field line. The group comes from the enclosing
// section; the trailing group column is informational.
func decodeRecord(fields []string, group string) model.Record {
	return model.Record{
		ID:      strings.TrimSpace(fields[0]),
		Name:    strings.TrimSpace(fields[1]),
		Jockey:  strings.TrimSpace(fields[2]),
		Age:     strings.TrimSpace(fields[3]),
		Breed:   strings.TrimSpace(fields[4]),
		History: JoinHistory(fields[5 : 5+historyParts]),
		Group:   group,
	}
}

// Save writes sections to the data file, replacing it atomically.
func (s *Store) Save(ctx context.Context, sections []roster.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		metrics.RecordPersistenceLatency("save", float64(time.Since(start).Nanoseconds())/nsPerMs)
	}()

	if err := s.write(sections); err != nil {
		return err
	}
	s.logger.Info(ctx, "data saved",
		logger.String("path", s.path),
		logger.Int("groups", len(sections)),
		logger.Int("records", len(roster.Flatten(sections))),
	)
	return nil
}

func (s *Store) write(sections []roster.Section) error {
	data, err := Encode(sections)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

// Encode renders sections in the data file format.
func Encode(sections []roster.Section) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(Header, ",") + "\n")

	w := csv.NewWriter(&buf)
	for _, sec := range sections {
		buf.WriteString("\n" + sectionPrefix + " " + sec.Group + "\n")
		for _, rec := range sec.Records {
			history := SplitHistory(rec.History)
			row := make([]string, 0, fieldsPerLine)
			row = append(row, rec.ID, rec.Name, rec.Jockey, rec.Age, rec.Breed)
			row = append(row, history[:]...)
			row = append(row, rec.Group)
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("encode record %q: %w", rec.ID, err)
			}
		}
		// Section headers bypass the csv writer, so flush before the next one.
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("encode group %q: %w", sec.Group, err)
		}
	}
	return buf.Bytes(), nil
}

// SplitHistory breaks a race record into the three stored parts. The last
// part keeps any further commas.
func SplitHistory(history string) [historyParts]string {
	var out [historyParts]string
	for i, p := range strings.SplitN(history, ",", historyParts) {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// JoinHistory rebuilds a race record from its stored parts, dropping
// trailing empty parts.
func JoinHistory(parts []string) string {
	trimmed := make([]string, len(parts))
	for i, p := range parts {
		trimmed[i] = strings.TrimSpace(p)
	}
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] == "" {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return strings.Join(trimmed, ", ")
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
