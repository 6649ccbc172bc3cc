package activity

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	statisticsHeader = "{Statistics}"
	historyHeader    = "{History}"
)

// historyRenames maps HRMonitorApp history column names onto the
// canonical channel names shared with the FIT path.
var historyRenames = map[string]string{
	"sec":    "timestamp",
	"hr_bpm": "heart_rate",
}

// LoadHRMonitorApp normalizes an HRMonitorApp CSV export. The file is
// line oriented with labeled sections terminated by a blank line; only
// {Statistics} and {History} matter, everything else is ignored. The
// format carries no sport, device or distance information, so those
// metadata fields stay nil.
func LoadHRMonitorApp(path string) (*Metadata, *Recordings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open hrmonitorapp file: %w", err)
	}
	defer f.Close()

	meta := &Metadata{}
	recordings := NewRecordings()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case statisticsHeader:
			if err := parseStatistics(collectUntilBlank(scanner), meta); err != nil {
				return nil, nil, err
			}
		case historyHeader:
			recordings, err = parseHistory(collectUntilBlank(scanner))
			if err != nil {
				return nil, nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read hrmonitorapp file: %w", err)
	}

	return meta, recordings, nil
}

// collectUntilBlank gathers the non-blank lines following a section
// header. The blank line terminating the section is consumed.
func collectUntilBlank(scanner *bufio.Scanner) []string {
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return lines
}

// parseStatistics fills the temporal metadata fields from the key,value
// pairs of a {Statistics} section.
func parseStatistics(lines []string, meta *Metadata) error {
	pairs := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ",")
		if !ok {
			return fmt.Errorf("%w: statistics line %q is not a key,value pair", ErrMalformedField, line)
		}
		pairs[strings.ToLower(key)] = value
	}

	for _, key := range []string{"date", "start", "duration"} {
		if _, ok := pairs[key]; !ok {
			return fmt.Errorf("%w: statistics section has no %q entry", ErrMalformedField, key)
		}
	}

	month, day, year, err := parseDate(pairs["date"])
	if err != nil {
		return err
	}
	hour, minute, second, err := parseClock(pairs["start"])
	if err != nil {
		return err
	}
	dh, dm, ds, err := parseClock(pairs["duration"])
	if err != nil {
		return err
	}

	// Two-digit years are always interpreted as the 2000s.
	start := time.Date(2000+year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	duration := dh*3600 + dm*60 + ds

	meta.DatetimeStart = timePtr(start)
	meta.DatetimeEnd = timePtr(start.Add(time.Duration(duration) * time.Second))
	meta.Duration = intPtr(duration)
	return nil
}

// parseDate parses the MM/DD/YY statistics date.
func parseDate(s string) (month, day, year int, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: date %q, want MM/DD/YY", ErrMalformedField, s)
	}
	if month, err = atoiField("date", s, parts[0]); err != nil {
		return 0, 0, 0, err
	}
	if day, err = atoiField("date", s, parts[1]); err != nil {
		return 0, 0, 0, err
	}
	if year, err = atoiField("date", s, parts[2]); err != nil {
		return 0, 0, 0, err
	}
	return month, day, year, nil
}

// parseClock parses the HH:MM:SS shape shared by start and duration.
func parseClock(s string) (hour, minute, second int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: time %q, want HH:MM:SS", ErrMalformedField, s)
	}
	if hour, err = atoiField("time", s, parts[0]); err != nil {
		return 0, 0, 0, err
	}
	if minute, err = atoiField("time", s, parts[1]); err != nil {
		return 0, 0, 0, err
	}
	if second, err = atoiField("time", s, parts[2]); err != nil {
		return 0, 0, 0, err
	}
	return hour, minute, second, nil
}

func atoiField(kind, field, part string) (int, error) {
	v, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q has non-numeric component %q", ErrMalformedField, kind, field, part)
	}
	return v, nil
}

// parseHistory turns a {History} section into the recordings table. The
// first line is the comma-separated header; the remaining lines are
// numeric rows with exactly the header's column count. The format has no
// missing-value marker, so every sample is valid.
func parseHistory(lines []string) (*Recordings, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: history section has no header row", ErrMalformedField)
	}

	headers := strings.Split(lines[0], ",")
	for i, header := range headers {
		name := strings.ToLower(strings.TrimSpace(header))
		if renamed, ok := historyRenames[name]; ok {
			name = renamed
		}
		headers[i] = name
	}

	columns := make([]Series, len(headers))
	for i := range columns {
		columns[i] = make(Series, 0, len(lines)-1)
	}
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) != len(headers) {
			return nil, fmt.Errorf("%w: history row %q has %d columns, want %d", ErrMalformedField, line, len(fields), len(headers))
		}
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: history value %q is not numeric", ErrMalformedField, field)
			}
			columns[i] = append(columns[i], Sample{Value: v, Valid: true})
		}
	}

	recordings := NewRecordings()
	for i, header := range headers {
		if err := recordings.Add(header, columns[i]); err != nil {
			return nil, err
		}
	}
	return recordings, nil
}
