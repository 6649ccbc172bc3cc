package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asnt/traindurance/activity"
	"github.com/asnt/traindurance/summary"
)

// HasActivity reports whether an activity with the given file hash has
// already been imported.
func (s *Store) HasActivity(fileHash string) (bool, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM activities WHERE file_hash = ?", fileHash).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying activity by hash: %w", err)
	}
	return true, nil
}

// SaveActivity stores the metadata, recordings and summary of one
// activity in a single transaction and returns the new activity id.
func (s *Store) SaveActivity(meta *activity.Metadata, recordings *activity.Recordings, sum summary.Summary) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO activities (
			file_hash, name, sport, sub_sport, workout,
			device_manufacturer, device_model,
			datetime_start, datetime_end,
			duration, distance, heartrate_mean, heartrate_median
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		meta.FileHash, meta.Name, meta.Sport, meta.SubSport, meta.Workout,
		meta.DeviceManufacturer, meta.DeviceModel,
		timeString(meta.DatetimeStart), timeString(meta.DatetimeEnd),
		meta.Duration, meta.Distance, meta.HeartrateMean, meta.HeartrateMedian,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting activity: %w", err)
	}
	activityID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("activity id: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO summaries (
			activity_id, sample_count,
			heartrate_min, heartrate_max,
			speed_mean, speed_max, cadence_mean,
			distance_total, altitude_min, altitude_max
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		activityID, sum.SampleCount,
		sum.HeartrateMin, sum.HeartrateMax,
		sum.SpeedMean, sum.SpeedMax, sum.CadenceMean,
		sum.DistanceTotal, sum.AltitudeMin, sum.AltitudeMax,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting summary: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO recordings (activity_id, position, name, samples) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing recordings insert: %w", err)
	}
	defer stmt.Close()

	for position, name := range recordings.Names() {
		series, _ := recordings.Channel(name)
		encoded, err := encodeSeries(series)
		if err != nil {
			return 0, fmt.Errorf("encoding channel %q: %w", name, err)
		}
		if _, err := stmt.Exec(activityID, position, name, encoded); err != nil {
			return 0, fmt.Errorf("inserting channel %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return activityID, nil
}

// GetRecordings reloads the recordings table of a stored activity,
// channels in their original order.
func (s *Store) GetRecordings(activityID int64) (*activity.Recordings, error) {
	rows, err := s.db.Query(`
		SELECT name, samples FROM recordings
		WHERE activity_id = ?
		ORDER BY position
	`, activityID)
	if err != nil {
		return nil, fmt.Errorf("querying recordings: %w", err)
	}
	defer rows.Close()

	recordings := activity.NewRecordings()
	for rows.Next() {
		var name, encoded string
		if err := rows.Scan(&name, &encoded); err != nil {
			return nil, fmt.Errorf("scanning recording row: %w", err)
		}
		series, err := decodeSeries(encoded)
		if err != nil {
			return nil, fmt.Errorf("decoding channel %q: %w", name, err)
		}
		if err := recordings.Add(name, series); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recordings: %w", err)
	}
	return recordings, nil
}

// encodeSeries serializes a series as a JSON array with null standing in
// for invalid samples.
func encodeSeries(series activity.Series) (string, error) {
	values := make([]*float64, len(series))
	for i, sample := range series {
		if sample.Valid {
			v := sample.Value
			values[i] = &v
		}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSeries(encoded string) (activity.Series, error) {
	var values []*float64
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, err
	}
	series := make(activity.Series, len(values))
	for i, v := range values {
		if v != nil {
			series[i] = activity.Sample{Value: *v, Valid: true}
		}
	}
	return series, nil
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
