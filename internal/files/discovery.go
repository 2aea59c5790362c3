package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind classifies a directory entry for processing
type Kind int

const (
	// Workbook is an Office Open XML spreadsheet (.xlsx, .xlsm)
	Workbook Kind = iota
	// LegacyWorkbook is a BIFF .xls file, which cannot be decoded
	LegacyWorkbook
	// Other is any other file
	Other
)

func (k Kind) String() string {
	switch k {
	case Workbook:
		return "workbook"
	case LegacyWorkbook:
		return "xls"
	default:
		return "other"
	}
}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Kind    Kind
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. Relative directories
// are resolved against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// Classify returns the kind of a file from its name
func Classify(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return Workbook
	case ".xls":
		return LegacyWorkbook
	default:
		return Other
	}
}

// IsHidden reports whether a file name is hidden by convention
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// FindInputFiles lists the files of dir that a run considers: every regular,
// non-hidden file, classified by kind and sorted by name. Publications are
// named "{year}-{month}", so name order is publication order.
func (d *Discovery) FindInputFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || IsHidden(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Kind:    Classify(name),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}
