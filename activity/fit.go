package activity

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/tormoder/fit"
)

const semicirclesToDeg = 180.0 / 2147483648.0 // 2^31

const invalidSemicircles = math.MaxInt32

// recordChannel extracts one named channel value from a record message.
// Channels appear in the recordings table in this fixed order, and only
// when at least one record carries a valid value for them.
type recordChannel struct {
	name    string
	extract func(*fit.RecordMsg) Sample
}

var recordChannels = []recordChannel{
	{"timestamp", func(rec *fit.RecordMsg) Sample {
		if ts := validTimeOrZero(rec.Timestamp); !ts.IsZero() {
			return Sample{Value: float64(ts.Unix()), Valid: true}
		}
		return Sample{}
	}},
	{"position_lat", func(rec *fit.RecordMsg) Sample {
		return semicircleSample(rec.PositionLat.Semicircles())
	}},
	{"position_long", func(rec *fit.RecordMsg) Sample {
		return semicircleSample(rec.PositionLong.Semicircles())
	}},
	{"distance", func(rec *fit.RecordMsg) Sample {
		return scaledSample(rec.GetDistanceScaled())
	}},
	{"altitude", func(rec *fit.RecordMsg) Sample {
		return scaledSample(rec.GetAltitudeScaled())
	}},
	{"speed", func(rec *fit.RecordMsg) Sample {
		if s := scaledSample(rec.GetEnhancedSpeedScaled()); s.Valid {
			return s
		}
		return scaledSample(rec.GetSpeedScaled())
	}},
	{"heart_rate", func(rec *fit.RecordMsg) Sample {
		if rec.HeartRate == math.MaxUint8 {
			return Sample{}
		}
		return Sample{Value: float64(rec.HeartRate), Valid: true}
	}},
	{"cadence", func(rec *fit.RecordMsg) Sample {
		if rec.Cadence == math.MaxUint8 {
			return Sample{}
		}
		return Sample{Value: float64(rec.Cadence), Valid: true}
	}},
	{"power", func(rec *fit.RecordMsg) Sample {
		if rec.Power == math.MaxUint16 {
			return Sample{}
		}
		return Sample{Value: float64(rec.Power), Valid: true}
	}},
	{"temperature", func(rec *fit.RecordMsg) Sample {
		if rec.Temperature == math.MaxInt8 {
			return Sample{}
		}
		return Sample{Value: float64(rec.Temperature), Valid: true}
	}},
}

// LoadFIT normalizes a FIT activity file. Raw message decoding is
// delegated to the tormoder/fit decoder; this layer only interprets the
// decoded messages.
func LoadFIT(path string) (*Metadata, *Recordings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decode FIT file: %w", err)
	}
	act, err := decoded.Activity()
	if err != nil {
		return nil, nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	return normalizeFIT(&decoded.FileId, act)
}

func normalizeFIT(fileID *fit.FileIdMsg, act *fit.ActivityFile) (*Metadata, *Recordings, error) {
	recordings, err := buildFITRecordings(act.Records)
	if err != nil {
		return nil, nil, err
	}

	meta := &Metadata{}

	// Sport identity is a structural requirement of the format. The
	// decoder folds the sport information of activity files into the
	// session message; the sport profile name is not surfaced, so Name
	// stays nil for FIT sources.
	if len(act.Sessions) == 0 {
		return nil, nil, fmt.Errorf("%w: sport", ErrMissingSection)
	}
	session := act.Sessions[0]
	meta.Sport = strPtr(strings.ToLower(session.Sport.String()))
	meta.SubSport = strPtr(strings.ToLower(session.SubSport.String()))

	meta.DeviceManufacturer = strPtr(strings.ToLower(fileID.Manufacturer.String()))
	// Only the garmin product space maps to a model name. Other
	// manufacturers are unmapped, not an error.
	if fileID.Manufacturer == fit.ManufacturerGarmin {
		meta.DeviceModel = strPtr(strings.ToLower(fit.GarminProduct(fileID.Product).String()))
	}

	// Timer events bound the activity. First match wins per kind.
	for _, event := range act.Events {
		if event.Event != fit.EventTimer {
			continue
		}
		ts := validTimeOrZero(event.Timestamp)
		if ts.IsZero() {
			continue
		}
		switch event.EventType {
		case fit.EventTypeStart:
			if meta.DatetimeStart == nil {
				meta.DatetimeStart = timePtr(ts)
			}
		case fit.EventTypeStopAll:
			if meta.DatetimeEnd == nil {
				meta.DatetimeEnd = timePtr(ts)
			}
		}
	}

	if hr, ok := recordings.Channel("heart_rate"); ok {
		if mean, ok := seriesMean(hr); ok {
			meta.HeartrateMean = intPtr(mean)
		}
		if median, ok := seriesMedian(hr); ok {
			meta.HeartrateMedian = intPtr(median)
		}
	}

	timestamps, ok := recordings.Channel("timestamp")
	if !ok {
		return nil, nil, ErrEmptyRecording
	}
	stamps := timestamps.Values()
	meta.Duration = intPtr(int(stamps[len(stamps)-1] - stamps[0]))

	if distance, ok := recordings.Channel("distance"); ok {
		if last := distance[len(distance)-1]; last.Valid {
			meta.Distance = floatPtr(last.Value)
		}
	}

	return meta, recordings, nil
}

// buildFITRecordings turns record messages into the tabular recordings
// structure: one row per message, one aligned series per channel. A
// record missing a value contributes an invalid sample so every channel
// keeps the full row count.
func buildFITRecordings(records []*fit.RecordMsg) (*Recordings, error) {
	recordings := NewRecordings()
	for _, channel := range recordChannels {
		series := make(Series, 0, len(records))
		observed := false
		for _, rec := range records {
			if rec == nil {
				series = append(series, Sample{})
				continue
			}
			sample := channel.extract(rec)
			observed = observed || sample.Valid
			series = append(series, sample)
		}
		if !observed {
			continue
		}
		if err := recordings.Add(channel.name, series); err != nil {
			return nil, err
		}
	}
	return recordings, nil
}

func semicircleSample(v int32) Sample {
	if v == invalidSemicircles {
		return Sample{}
	}
	return Sample{Value: float64(v) * semicirclesToDeg, Valid: true}
}

func scaledSample(v float64) Sample {
	if !isFinite(v) {
		return Sample{}
	}
	return Sample{Value: v, Valid: true}
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
