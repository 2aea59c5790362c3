// Package merge accumulates rows extracted from many workbooks into one
// bucket per frequency class and exports the buckets as tables.
//
// Buckets are created on first use and shared by every writer. Inside a
// bucket, columns and rows are split across lock shards so that sheets from
// different files can be merged concurrently. Rows stored at the same
// timestamp are combined column by column, never replaced.
package merge
