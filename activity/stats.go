package activity

import "sort"

// seriesMean returns the mean of the valid samples truncated toward zero,
// matching the source's float-to-int conversion. ok is false when the
// series has no valid samples.
func seriesMean(s Series) (int, bool) {
	values := s.Values()
	if len(values) == 0 {
		return 0, false
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return int(total / float64(len(values))), true
}

// seriesMedian returns the median of the valid samples truncated toward
// zero. For an even count the median is the mean of the two middle values.
func seriesMedian(s Series) (int, bool) {
	values := s.Values()
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return int(values[mid]), true
	}
	return int((values[mid-1] + values[mid]) / 2), true
}
