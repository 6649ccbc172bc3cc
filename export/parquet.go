package export

import (
	"fmt"
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/asnt/traindurance/activity"
)

// WriteParquet writes recordings as a snappy-compressed parquet file.
// The channel set varies per source file, so the schema is assembled
// dynamically with one DOUBLE column per channel; invalid samples are
// stored as NaN.
func WriteParquet(path string, recordings *activity.Recordings) error {
	names := recordings.Names()
	if len(names) == 0 {
		return fmt.Errorf("no channels to export")
	}

	md := make([]string, len(names))
	columns := make([]activity.Series, len(names))
	for i, name := range names {
		md[i] = fmt.Sprintf("name=%s, type=DOUBLE", name)
		columns[i], _ = recordings.Channel(name)
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewCSVWriter(md, fw, 4)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	row := make([]interface{}, len(names))
	for i := 0; i < recordings.Rows(); i++ {
		for j, column := range columns {
			if sample := column[i]; sample.Valid {
				row[j] = sample.Value
			} else {
				row[j] = math.NaN()
			}
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	return nil
}
