package activity

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const hrmonitorappSample = `[Params]
Version,106

{Statistics}
Date,01/02/23
Start,10:00:00
Duration,01:30:00
MaxHR,152

{History}
SEC,HR_BPM,ALT
0,100,12.5
1,101,13.0
2,99,13.5

[End]
`

func writeHRMonitorAppFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_hr_data_20230102.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadHRMonitorAppStatistics(t *testing.T) {
	path := writeHRMonitorAppFixture(t, hrmonitorappSample)

	meta, _, err := LoadHRMonitorApp(path)
	if err != nil {
		t.Fatalf("LoadHRMonitorApp error: %v", err)
	}

	// Two-digit year 23 means 2023.
	wantStart := time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)
	if meta.DatetimeStart == nil || !meta.DatetimeStart.Equal(wantStart) {
		t.Errorf("DatetimeStart = %v, want %v", meta.DatetimeStart, wantStart)
	}
	if meta.Duration == nil || *meta.Duration != 5400 {
		t.Errorf("Duration = %v, want 5400", meta.Duration)
	}
	wantEnd := time.Date(2023, 1, 2, 11, 30, 0, 0, time.UTC)
	if meta.DatetimeEnd == nil || !meta.DatetimeEnd.Equal(wantEnd) {
		t.Errorf("DatetimeEnd = %v, want %v", meta.DatetimeEnd, wantEnd)
	}
}

func TestLoadHRMonitorAppSchemaKeysNil(t *testing.T) {
	path := writeHRMonitorAppFixture(t, hrmonitorappSample)

	meta, _, err := LoadHRMonitorApp(path)
	if err != nil {
		t.Fatalf("LoadHRMonitorApp error: %v", err)
	}

	// The format carries no identity, device or vitals information;
	// those fields stay nil, which is expected rather than an error.
	if meta.Name != nil || meta.Sport != nil || meta.SubSport != nil || meta.Workout != nil {
		t.Error("identity fields should be nil")
	}
	if meta.DeviceManufacturer != nil || meta.DeviceModel != nil {
		t.Error("device fields should be nil")
	}
	if meta.Distance != nil || meta.HeartrateMean != nil || meta.HeartrateMedian != nil {
		t.Error("distance and heart-rate statistics should be nil")
	}
	if meta.FileHash != nil {
		t.Error("FileHash is the importer's concern and should be nil")
	}
}

func TestLoadHRMonitorAppHistory(t *testing.T) {
	path := writeHRMonitorAppFixture(t, hrmonitorappSample)

	_, recordings, err := LoadHRMonitorApp(path)
	if err != nil {
		t.Fatalf("LoadHRMonitorApp error: %v", err)
	}

	wantNames := []string{"timestamp", "heart_rate", "alt"}
	if got := recordings.Names(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("channel names = %v, want %v", got, wantNames)
	}
	for _, name := range wantNames {
		series, _ := recordings.Channel(name)
		if len(series) != 3 {
			t.Errorf("channel %q length = %d, want 3", name, len(series))
		}
	}

	hr, _ := recordings.Channel("heart_rate")
	want := []float64{100, 101, 99}
	if got := hr.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("heart_rate values = %v, want %v", got, want)
	}
}

func TestLoadHRMonitorAppWithoutHistory(t *testing.T) {
	content := "{Statistics}\nDate,01/02/23\nStart,10:00:00\nDuration,00:30:00\n\n"
	path := writeHRMonitorAppFixture(t, content)

	_, recordings, err := LoadHRMonitorApp(path)
	if err != nil {
		t.Fatalf("LoadHRMonitorApp error: %v", err)
	}
	if recordings.Channels() != 0 {
		t.Errorf("channels = %d, want empty recordings", recordings.Channels())
	}
}

func TestLoadHRMonitorAppMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "duration with two components",
			content: "{Statistics}\nDate,01/02/23\nStart,10:00:00\nDuration,90:00\n\n",
		},
		{
			name:    "date with two components",
			content: "{Statistics}\nDate,01/23\nStart,10:00:00\nDuration,01:00:00\n\n",
		},
		{
			name:    "missing start key",
			content: "{Statistics}\nDate,01/02/23\nDuration,01:00:00\n\n",
		},
		{
			name:    "non-numeric date component",
			content: "{Statistics}\nDate,0a/02/23\nStart,10:00:00\nDuration,01:00:00\n\n",
		},
		{
			name:    "history row column mismatch",
			content: "{History}\nSEC,HR_BPM\n0,100\n1,101,55\n\n",
		},
		{
			name:    "history non-numeric value",
			content: "{History}\nSEC,HR_BPM\n0,resting\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeHRMonitorAppFixture(t, tt.content)
			_, _, err := LoadHRMonitorApp(path)
			if !errors.Is(err, ErrMalformedField) {
				t.Fatalf("err = %v, want ErrMalformedField", err)
			}
		})
	}
}

func TestLoadHRMonitorAppUnpaddedClockAccepted(t *testing.T) {
	// The shape check is component-count based: 1:2:3 parses even
	// without zero padding.
	content := "{Statistics}\nDate,1/2/23\nStart,1:2:3\nDuration,0:1:30\n\n"
	path := writeHRMonitorAppFixture(t, content)

	meta, _, err := LoadHRMonitorApp(path)
	if err != nil {
		t.Fatalf("LoadHRMonitorApp error: %v", err)
	}
	wantStart := time.Date(2023, 1, 2, 1, 2, 3, 0, time.UTC)
	if meta.DatetimeStart == nil || !meta.DatetimeStart.Equal(wantStart) {
		t.Errorf("DatetimeStart = %v, want %v", meta.DatetimeStart, wantStart)
	}
	if meta.Duration == nil || *meta.Duration != 90 {
		t.Errorf("Duration = %v, want 90", meta.Duration)
	}
}

func TestLoadHRMonitorAppIdempotent(t *testing.T) {
	path := writeHRMonitorAppFixture(t, hrmonitorappSample)

	meta1, rec1, err := LoadHRMonitorApp(path)
	if err != nil {
		t.Fatalf("first load error: %v", err)
	}
	meta2, rec2, err := LoadHRMonitorApp(path)
	if err != nil {
		t.Fatalf("second load error: %v", err)
	}
	if !reflect.DeepEqual(meta1, meta2) || !reflect.DeepEqual(rec1, rec2) {
		t.Error("outputs differ between identical loads")
	}
}
