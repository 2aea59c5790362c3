// Package files provides file system operations and discovery utilities.
//
// Discovery lists the input directory of a run and classifies each entry:
// hidden files and subdirectories are ignored, .xlsx and .xlsm files are
// workbooks, .xls files are legacy workbooks that cannot be decoded, and
// everything else is reported as an unsupported format.
//
// Manager writes downloaded publications into the data directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	inputs, err := discovery.FindInputFiles("data")
//
//	manager := files.NewManager("data")
//	if !manager.FileExists("2015-03.xlsx") {
//		_, err = manager.WriteFrom("2015-03.xlsx", body)
//	}
package files
