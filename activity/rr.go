package activity

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tormoder/fit"
)

// LoadRR extracts the raw beat-to-beat interval sequence from path,
// always in seconds. FIT sources are read from hrv messages; CSV sources
// are whitespace/line-delimited millisecond values. This pipeline is
// independent of activity normalization and returns no metadata.
func LoadRR(path string) ([]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fit":
		return loadRRFromFIT(path)
	case ".csv":
		return loadRRFromCSV(path)
	}
	return nil, fmt.Errorf("%w: %s (want .fit or .csv)", ErrUnsupportedFormat, path)
}

// loadRRFromFIT flattens the interval arrays of all hrv messages in file
// order, dropping the no-value marker and preserving the relative order
// of the rest. Raw values are milliseconds.
func loadRRFromFIT(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	act, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}

	var rr []float64
	for _, hrv := range act.Hrvs {
		if hrv == nil {
			continue
		}
		for _, interval := range hrv.Time {
			if interval == math.MaxUint16 {
				continue
			}
			rr = append(rr, float64(interval)/1000.0)
		}
	}
	return rr, nil
}

// loadRRFromCSV reads whitespace/line-delimited millisecond values and
// converts them to seconds.
func loadRRFromCSV(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read RR csv: %w", err)
	}

	fields := strings.Fields(string(data))
	rr := make([]float64, 0, len(fields))
	for _, field := range fields {
		ms, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: RR value %q is not numeric", ErrMalformedField, field)
		}
		rr = append(rr, ms/1000.0)
	}
	return rr, nil
}
