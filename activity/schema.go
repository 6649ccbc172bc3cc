// Package activity normalizes heart-activity recordings from wearable
// devices into a uniform representation: a flat metadata record plus a
// collection of aligned per-channel time series. Two source formats are
// supported, the FIT binary message stream and the HRMonitorApp delimited
// text export. A narrower secondary pipeline extracts raw RR (beat to
// beat) interval sequences for HRV analysis.
package activity

import (
	"fmt"
	"time"
)

// Metadata is the canonical flat record describing one imported activity.
// Pointer fields are nil when the source format cannot supply the value;
// every field exists for every format.
type Metadata struct {
	// FileHash is filled in by the importer, never by the normalizer.
	FileHash *string

	Name     *string
	Sport    *string
	SubSport *string
	Workout  *string

	DeviceManufacturer *string
	DeviceModel        *string

	DatetimeStart *time.Time
	DatetimeEnd   *time.Time

	// Duration is whole seconds between end and start.
	Duration *int
	// Distance is the last observed cumulative distance sample, in the
	// source's own unit (meters for FIT). No conversion at this layer.
	Distance *float64

	HeartrateMean   *int
	HeartrateMedian *int
}

// Sample is one observation in a channel. Invalid samples stand in for
// values the source omitted so channels keep their per-index alignment.
type Sample struct {
	Value float64
	Valid bool
}

// Series is one named channel of ordered samples.
type Series []Sample

// Values returns the valid sample values in order.
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s))
	for _, smp := range s {
		if smp.Valid {
			out = append(out, smp.Value)
		}
	}
	return out
}

// Recordings maps channel names to equal-length series, preserving the
// order channels were added in. All channels from one file are aligned:
// sample i in every channel refers to the same instant.
type Recordings struct {
	names  []string
	series map[string]Series
}

// NewRecordings returns an empty recordings table.
func NewRecordings() *Recordings {
	return &Recordings{series: make(map[string]Series)}
}

// Add appends a channel. Every channel must have the same length as the
// ones already present; a mismatch would break per-index alignment.
func (r *Recordings) Add(name string, s Series) error {
	if _, ok := r.series[name]; ok {
		return fmt.Errorf("%w: duplicate channel %q", ErrMalformedField, name)
	}
	if len(r.names) > 0 {
		if want := len(r.series[r.names[0]]); len(s) != want {
			return fmt.Errorf("%w: channel %q has %d samples, want %d", ErrMalformedField, name, len(s), want)
		}
	}
	r.names = append(r.names, name)
	r.series[name] = s
	return nil
}

// Channel returns the series for name.
func (r *Recordings) Channel(name string) (Series, bool) {
	s, ok := r.series[name]
	return s, ok
}

// Names returns the channel names in insertion order.
func (r *Recordings) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Rows returns the shared channel length.
func (r *Recordings) Rows() int {
	if len(r.names) == 0 {
		return 0
	}
	return len(r.series[r.names[0]])
}

// Channels returns the number of channels.
func (r *Recordings) Channels() int {
	return len(r.names)
}

func strPtr(s string) *string        { return &s }
func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(t time.Time) *time.Time { return &t }
