// Package download fetches the monthly economic trends workbooks published by
// the central bank into the data directory.
//
// The publisher has renamed its files many times, so each month is tried
// against a list of candidate URLs until one answers 200. Files already in
// the data directory are never fetched again, which makes DownloadAll safe to
// re-run from a cron schedule.
package download
