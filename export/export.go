// Package export writes a recordings table to columnar files, one column
// per channel, for analysis outside the importer.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/asnt/traindurance/activity"
)

// WriteRecordings writes recordings to path in the given format,
// "csv" or "parquet".
func WriteRecordings(path, format string, recordings *activity.Recordings) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return WriteCSV(path, recordings)
	case "parquet":
		return WriteParquet(path, recordings)
	}
	return fmt.Errorf("unsupported export format %q (expected csv|parquet)", format)
}

// WriteCSV writes one header row of channel names followed by one row
// per sample. Invalid samples become empty cells.
func WriteCSV(path string, recordings *activity.Recordings) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := recordings.Names()
	if err := w.Write(names); err != nil {
		return err
	}

	columns := make([]activity.Series, len(names))
	for i, name := range names {
		columns[i], _ = recordings.Channel(name)
	}
	row := make([]string, len(names))
	for i := 0; i < recordings.Rows(); i++ {
		for j, column := range columns {
			if sample := column[i]; sample.Valid {
				row[j] = formatFloat(sample.Value)
			} else {
				row[j] = ""
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
