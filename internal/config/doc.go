// Package config provides configuration management for the bank-data tools.
// It loads settings from struct tag defaults, an optional YAML file and the
// environment, then validates the result.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. The YAML file passed to Load, or bankdata.yaml / configs/bankdata.yaml
//	3. Default values from the struct tags (lowest priority)
//
// A file value only replaces a default when it is non-zero, so a boolean
// that defaults to true cannot be switched off from the file.
//
// # Environment Variables
//
// All environment variables follow the pattern BANKDATA_<SECTION>_<FIELD>:
//
//	BANKDATA_PATHS_DATA_DIR=/srv/bank-data
//	BANKDATA_PROCESSING_WORKERS=4
//	BANKDATA_DOWNLOAD_FROM_YEAR=2015
//	BANKDATA_TELEMETRY_TRACES=stdout
//
// Banned phrases can only be configured from the file.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	analyzer := analysis.New(cfg.AnalysisOptions())
package config
