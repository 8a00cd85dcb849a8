package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Moscow (55.7558, 37.6173) to Saint Petersburg (59.9343, 30.3351) ~ 630-640 km
	d := HaversineKm(55.7558, 37.6173, 59.9343, 30.3351)
	if d < 600 || d > 680 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineKmEquatorDegree(t *testing.T) {
	// 0.9 degrees of longitude on the equator is close to 100 km.
	d := HaversineKm(0, 0, 0, 0.9)
	if d < 99 || d > 101 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineMSamePoint(t *testing.T) {
	if d := HaversineM(10.0, 10.0, 10.0, 10.0); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestHaversineMShortSegment(t *testing.T) {
	// 0.0005 degrees of latitude ~ 55-56 meters regardless of longitude.
	d := HaversineM(10.0000, 10.0000, 10.0005, 10.0000)
	if d < 50 || d > 60 {
		t.Fatalf("unexpected distance: %v", d)
	}
}
