package activity

import (
	"errors"
	"reflect"
	"testing"
)

func TestRecordingsAddKeepsOrder(t *testing.T) {
	recordings := NewRecordings()
	for _, name := range []string{"timestamp", "heart_rate", "distance"} {
		if err := recordings.Add(name, validSeries(1, 2, 3)); err != nil {
			t.Fatalf("Add(%q) error: %v", name, err)
		}
	}

	want := []string{"timestamp", "heart_rate", "distance"}
	if got := recordings.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if recordings.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", recordings.Rows())
	}
}

func TestRecordingsAddRejectsMisalignedChannel(t *testing.T) {
	recordings := NewRecordings()
	if err := recordings.Add("timestamp", validSeries(1, 2, 3)); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	err := recordings.Add("heart_rate", validSeries(100, 101))
	if !errors.Is(err, ErrMalformedField) {
		t.Fatalf("err = %v, want ErrMalformedField", err)
	}
	// The rejected channel must not appear.
	if recordings.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", recordings.Channels())
	}
}

func TestRecordingsAddRejectsDuplicateChannel(t *testing.T) {
	recordings := NewRecordings()
	if err := recordings.Add("heart_rate", validSeries(100)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := recordings.Add("heart_rate", validSeries(101)); !errors.Is(err, ErrMalformedField) {
		t.Fatalf("err = %v, want ErrMalformedField", err)
	}
}

func TestSeriesValues(t *testing.T) {
	series := Series{
		{Value: 1, Valid: true},
		{},
		{Value: 3, Valid: true},
	}
	want := []float64{1, 3}
	if got := series.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}
