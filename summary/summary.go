// Package summary computes recording-level summary statistics for the
// importer to persist alongside the normalized activity metadata.
package summary

import "github.com/asnt/traindurance/activity"

// Summary aggregates the sample-bearing channels of one activity.
// Pointer fields are nil when the corresponding channel is absent or has
// no valid samples.
type Summary struct {
	SampleCount int

	HeartrateMin *float64
	HeartrateMax *float64

	SpeedMean *float64
	SpeedMax  *float64

	CadenceMean *float64

	// DistanceTotal is the last cumulative distance sample.
	DistanceTotal *float64

	AltitudeMin *float64
	AltitudeMax *float64
}

// Summarize derives the summary from a recordings table. An empty table
// yields a zero summary, not an error: HRMonitorApp files without a
// history section are a known limitation, not a failure.
func Summarize(recordings *activity.Recordings) Summary {
	s := Summary{SampleCount: recordings.Rows()}

	if hr, ok := recordings.Channel("heart_rate"); ok {
		s.HeartrateMin, s.HeartrateMax = minMax(hr.Values())
	}
	if speed, ok := recordings.Channel("speed"); ok {
		s.SpeedMean = mean(speed.Values())
		_, s.SpeedMax = minMax(speed.Values())
	}
	if cadence, ok := recordings.Channel("cadence"); ok {
		s.CadenceMean = mean(cadence.Values())
	}
	if altitude, ok := recordings.Channel("altitude"); ok {
		s.AltitudeMin, s.AltitudeMax = minMax(altitude.Values())
	}
	if distance, ok := recordings.Channel("distance"); ok {
		if values := distance.Values(); len(values) > 0 {
			last := values[len(values)-1]
			s.DistanceTotal = &last
		}
	}

	return s
}

func minMax(values []float64) (*float64, *float64) {
	if len(values) == 0 {
		return nil, nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return &lo, &hi
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	m := total / float64(len(values))
	return &m
}
