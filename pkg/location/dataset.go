package location

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/chrissnell/noaaclock/pkg/dst"
	"go.uber.org/zap"
)

// DefaultDatasetFile is the conventional name of the plain-text location dataset
const DefaultDatasetFile = "noaa_clock.cnf"

// terminator ends a dataset early when it appears anywhere on a line
const terminator = "*"

// ParseRecord parses one dataset line of the form
//
//	name latitude longitude timezoneOffset [dstTag]
func ParseRecord(line string) (Location, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Location{}, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}

	var vals [3]float64
	for i, f := range fields[1:4] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Location{}, fmt.Errorf("field %d: %w", i+2, err)
		}
		vals[i] = v
	}

	rule := dst.None
	if len(fields) > 4 {
		rule = dst.ParseRule(fields[4])
	}
	return New(fields[0], vals[0], vals[1], vals[2], rule)
}

// ScanDataset reads dataset records from r and passes each well-formed one to
// fn until fn returns false, a terminator line is reached or r is exhausted.
// Blank lines are skipped. Malformed lines are reported to bad, which may be nil.
func ScanDataset(r io.Reader, fn func(Location) bool, bad func(lineNo int, err error)) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.Contains(line, terminator) {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		loc, err := ParseRecord(line)
		if err != nil {
			if bad != nil {
				bad(lineNo, err)
			}
			continue
		}
		if !fn(loc) {
			return nil
		}
	}
	return scanner.Err()
}

// ReadDataset returns every well-formed record of a dataset
func ReadDataset(r io.Reader) ([]Location, error) {
	var locs []Location
	err := ScanDataset(r, func(l Location) bool {
		locs = append(locs, l)
		return true
	}, nil)
	return locs, err
}

// WriteDataset writes locations in dataset format followed by a terminator line
func WriteDataset(w io.Writer, locs []Location) error {
	bw := bufio.NewWriter(w)
	for _, l := range locs {
		fields := []string{
			l.Name,
			strconv.FormatFloat(l.Latitude, 'f', -1, 64),
			strconv.FormatFloat(l.Longitude, 'f', -1, 64),
			strconv.FormatFloat(l.TZ, 'f', -1, 64),
		}
		if tag := l.DST.Tag(); tag != "" {
			fields = append(fields, tag)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(bw, terminator); err != nil {
		return err
	}
	return bw.Flush()
}

// FileProvider resolves names against a plain-text dataset file, re-reading the
// file on every lookup. A missing file resolves nothing.
type FileProvider struct {
	path   string
	logger *zap.SugaredLogger
}

// NewFileProvider creates a provider for the dataset at path
func NewFileProvider(path string, logger *zap.SugaredLogger) *FileProvider {
	return &FileProvider{path: path, logger: logger}
}

// Name implements Provider
func (p *FileProvider) Name() string {
	return "file:" + p.path
}

// Resolve implements Provider. The first case-insensitive match wins.
func (p *FileProvider) Resolve(name string) (Location, bool, error) {
	var found Location
	ok := false
	err := p.scan(func(l Location) bool {
		if strings.EqualFold(l.Name, name) {
			found, ok = l, true
			return false
		}
		return true
	})
	if err != nil || !ok {
		return Location{}, false, err
	}
	found.Source = p.Name()
	return found, true, nil
}

// Names implements Provider
func (p *FileProvider) Names() ([]string, error) {
	var names []string
	err := p.scan(func(l Location) bool {
		names = append(names, l.Name)
		return true
	})
	return names, err
}

func (p *FileProvider) scan(fn func(Location) bool) error {
	f, err := os.Open(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Debugf("location dataset %s not found, skipping", p.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open location dataset: %w", err)
	}
	defer f.Close()

	err = ScanDataset(f, fn, func(lineNo int, err error) {
		p.logger.Warnf("%s:%d: skipping malformed location record: %v", p.path, lineNo, err)
	})
	if err != nil {
		return fmt.Errorf("failed to read location dataset %s: %w", p.path, err)
	}
	return nil
}
