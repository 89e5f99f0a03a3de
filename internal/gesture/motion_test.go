package gesture

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float64
		want       Direction
	}{
		{"still", 0, 0, None},
		{"below threshold", 0.9, -0.9, None},
		{"at threshold", 1.0, 1.0, None},
		{"right", 3, 0.5, Right},
		{"left", -3, 2, Left},
		{"down is positive pitch", 0.2, 4, Down},
		{"up is negative pitch", 0.2, -4, Up},
		{"one axis over threshold", 1.5, 0, Right},
		// equal magnitudes above the threshold fall through both branches
		{"tie", 2, -2, None},
		{"tie same sign", -3, -3, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.yaw, tt.pitch, 1.0)
			if got != tt.want {
				t.Errorf("Classify(%v, %v) = %s, want %s", tt.yaw, tt.pitch, got, tt.want)
			}
		})
	}
}

func TestDirectionString(t *testing.T) {
	if Left.String() != "left" {
		t.Errorf("expected left, got %s", Left)
	}
	if Direction(42).String() != "direction(42)" {
		t.Errorf("unexpected string for out of range direction: %s", Direction(42))
	}
}

func TestSanitizeDt(t *testing.T) {
	if sanitizeDt(-0.1) != 0 {
		t.Error("negative dt should clamp to 0")
	}
	if sanitizeDt(math.NaN()) != 0 {
		t.Error("NaN dt should clamp to 0")
	}
	if sanitizeDt(0.02) != 0.02 {
		t.Error("positive dt should pass through")
	}
}
