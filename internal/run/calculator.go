package run

import (
	"math"
	"time"

	"github.com/ArtemKhov/project-run/internal/shared/geo"
)

// sample is the slice of a position the aggregate calculator needs. The
// whole-run totals are recomputed from raw coordinates here, independent of
// the incremental per-position fields, so a run whose positions were never
// individually processed still finishes correctly.
type sample struct {
	lat, lng float64
	at       time.Time
}

// totalDistanceKm sums geodesic segments between consecutive samples in
// insertion order, rounded to 3 decimals. Zero or one sample is 0.0.
func totalDistanceKm(samples []sample) float64 {
	total := 0.0
	for i := 1; i < len(samples); i++ {
		total += geo.HaversineKm(samples[i-1].lat, samples[i-1].lng, samples[i].lat, samples[i].lng)
	}
	return round3(total)
}

// elapsedSeconds is max(date_time)-min(date_time) in whole seconds. The
// range tolerates out-of-order timestamps from offline batches; summing
// per-segment deltas would not.
func elapsedSeconds(samples []sample) int {
	if len(samples) == 0 {
		return 0
	}
	minTime, maxTime := samples[0].at, samples[0].at
	for _, s := range samples[1:] {
		if s.at.Before(minTime) {
			minTime = s.at
		}
		if s.at.After(maxTime) {
			maxTime = s.at
		}
	}
	return int(maxTime.Sub(minTime).Seconds())
}

// averageSpeedMps is the run's average speed in m/s, rounded to 2 decimals;
// 0.0 for fewer than two samples or zero elapsed time.
func averageSpeedMps(distanceKm float64, seconds int, sampleCount int) float64 {
	if sampleCount < 2 || seconds <= 0 {
		return 0.0
	}
	return round2(distanceKm * 1000 / float64(seconds))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
