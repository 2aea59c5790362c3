package merge

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/A248/bank-data/internal/timestamp"
)

var (
	// ErrStoreClosed is returned when a bucket is requested after export began
	ErrStoreClosed = errors.New("aggregation store is closed")

	// ErrBucketShared is returned by Export when a writer still holds a bucket
	ErrBucketShared = errors.New("bucket still held by a writer")
)

// MissingValue fills cells of exported tables that no source populated
const MissingValue = "NA"

// TimestampHeader is the first header cell of every exported table
const TimestampHeader = "timestamp-primary-key"

// Store accumulates rows from many files into one bucket per frequency class
type Store struct {
	mu     sync.RWMutex
	sheets map[timestamp.Class]*Sheet
	closed bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{sheets: make(map[timestamp.Class]*Sheet)}
}

// Acquire returns the bucket for the class of ts, creating it on first
// demand. Every call must be paired with Release.
func (s *Store) Acquire(ts timestamp.Timestamp) (*Sheet, error) {
	class := ts.Class()

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrStoreClosed
	}
	if sheet, ok := s.sheets[class]; ok {
		sheet.writers.Add(1)
		s.mu.RUnlock()
		return sheet, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	sheet, ok := s.sheets[class]
	if !ok {
		sheet = newSheet(class)
		s.sheets[class] = sheet
	}
	sheet.writers.Add(1)
	return sheet, nil
}

// Release gives back a bucket obtained from Acquire
func (s *Store) Release(sheet *Sheet) {
	sheet.writers.Add(-1)
}

// AddRow stores row under ts in the bucket of its class
func (s *Store) AddRow(ts timestamp.Timestamp, row *RowData) error {
	sheet, err := s.Acquire(ts)
	if err != nil {
		return err
	}
	defer s.Release(sheet)
	return sheet.AddRow(ts, row)
}

// Close stops further acquisitions. It is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Classes lists the classes that have a bucket, in sort order
func (s *Store) Classes() []timestamp.Class {
	s.mu.RLock()
	defer s.mu.RUnlock()
	classes := make([]timestamp.Class, 0, len(s.sheets))
	for c := range s.sheets {
		classes = append(classes, c)
	}
	slices.Sort(classes)
	return classes
}

// Export closes the store and renders every bucket as a table. It fails with
// ErrBucketShared if any bucket is still acquired.
func (s *Store) Export() ([]Table, error) {
	s.Close()

	s.mu.RLock()
	defer s.mu.RUnlock()

	classes := make([]timestamp.Class, 0, len(s.sheets))
	for c, sheet := range s.sheets {
		if n := sheet.Writers(); n != 0 {
			return nil, fmt.Errorf("%w: %s bucket has %d writers", ErrBucketShared, c, n)
		}
		classes = append(classes, c)
	}
	slices.Sort(classes)

	tables := make([]Table, 0, len(classes))
	for _, c := range classes {
		tables = append(tables, s.sheets[c].table())
	}
	return tables, nil
}
