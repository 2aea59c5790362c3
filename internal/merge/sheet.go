package merge

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/A248/bank-data/internal/timestamp"
)

const shardCount = 16

type columnShard struct {
	mu      sync.Mutex
	columns map[Column]struct{}
}

type rowShard struct {
	mu   sync.Mutex
	rows map[timestamp.Timestamp]*RowData
}

// Sheet is the bucket of one frequency class: every column seen for the
// class and the rows keyed by timestamp. It is safe for concurrent use.
type Sheet struct {
	class   timestamp.Class
	columns [shardCount]columnShard
	rows    [shardCount]rowShard
	writers atomic.Int64
}

func newSheet(class timestamp.Class) *Sheet {
	s := &Sheet{class: class}
	for i := range s.columns {
		s.columns[i].columns = make(map[Column]struct{})
		s.rows[i].rows = make(map[timestamp.Timestamp]*RowData)
	}
	return s
}

// Class is the frequency class the bucket holds
func (s *Sheet) Class() timestamp.Class {
	return s.class
}

// AddRow registers the row's columns and stores the row at ts, combining it
// with a row already stored there. The combine runs under the key's shard
// lock so concurrent writers to one timestamp never lose a column.
func (s *Sheet) AddRow(ts timestamp.Timestamp, row *RowData) error {
	if ts.Class() != s.class {
		return fmt.Errorf("timestamp %s is %s, bucket holds %s", ts, ts.Class(), s.class)
	}
	for c := range row.values {
		s.ensureColumn(c)
	}

	shard := &s.rows[rowShardIndex(ts)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if existing, ok := shard.rows[ts]; ok {
		existing.combine(row)
		return nil
	}
	shard.rows[ts] = row.clone()
	return nil
}

func (s *Sheet) ensureColumn(c Column) {
	shard := &s.columns[columnShardIndex(c)]
	shard.mu.Lock()
	shard.columns[c] = struct{}{}
	shard.mu.Unlock()
}

// Columns returns every column registered in the bucket, sorted by dotted path
func (s *Sheet) Columns() []Column {
	var columns []Column
	for i := range s.columns {
		shard := &s.columns[i]
		shard.mu.Lock()
		for c := range shard.columns {
			columns = append(columns, c)
		}
		shard.mu.Unlock()
	}
	slices.SortFunc(columns, func(a, b Column) int {
		return strings.Compare(a.String(), b.String())
	})
	return columns
}

// Row returns a copy of the row stored at ts
func (s *Sheet) Row(ts timestamp.Timestamp) (*RowData, bool) {
	shard := &s.rows[rowShardIndex(ts)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	row, ok := shard.rows[ts]
	if !ok {
		return nil, false
	}
	return row.clone(), true
}

// Timestamps returns every stored timestamp in ascending order
func (s *Sheet) Timestamps() []timestamp.Timestamp {
	var keys []timestamp.Timestamp
	for i := range s.rows {
		shard := &s.rows[i]
		shard.mu.Lock()
		for ts := range shard.rows {
			keys = append(keys, ts)
		}
		shard.mu.Unlock()
	}
	slices.SortFunc(keys, timestamp.Compare)
	return keys
}

// Writers is the number of outstanding acquisitions of the bucket
func (s *Sheet) Writers() int64 {
	return s.writers.Load()
}

func rowShardIndex(ts timestamp.Timestamp) uint32 {
	h := fnv.New32a()
	y := ts.Year()
	h.Write([]byte{byte(ts.Class()), byte(y >> 8), byte(y), byte(ts.Period())})
	return h.Sum32() % shardCount
}

func columnShardIndex(c Column) uint32 {
	h := fnv.New32a()
	h.Write([]byte(c.rawKey()))
	return h.Sum32() % shardCount
}
