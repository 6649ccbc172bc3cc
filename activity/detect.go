package activity

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an activity file format.
type Format string

const (
	FormatFIT          Format = "fit"
	FormatHRMonitorApp Format = "hrmonitorapp"
)

// hrmonitorappPrefix is the fixed file-name prefix of HRMonitorApp CSV
// exports. A bare .csv extension is not enough to claim the format.
const hrmonitorappPrefix = "user_hr_data_"

// DetectFormat decides which normalizer applies to path. Detection is
// based purely on the file name; no content sniffing.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".fit":
		return FormatFIT, nil
	case ext == ".csv" && strings.HasPrefix(filepath.Base(path), hrmonitorappPrefix):
		return FormatHRMonitorApp, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load normalizes the activity file at path into the canonical
// (metadata, recordings) pair, dispatching on the detected format.
func Load(path string) (*Metadata, *Recordings, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	switch format {
	case FormatFIT:
		return LoadFIT(path)
	default:
		return LoadHRMonitorApp(path)
	}
}
