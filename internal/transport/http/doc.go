// Package http serves the operational endpoints of a long-running bank-data
// process: Prometheus metrics at /metrics and a JSON health document at
// /health. Handlers stay thin; the data they report comes from the
// infrastructure package.
package http
