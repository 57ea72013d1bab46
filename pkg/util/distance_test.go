package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		wantKm   float64
		tolerance float64
	}{
		{
			name:   "Same point",
			lat1:   12.9716, lon1: 77.5946,
			lat2:   12.9716, lon2: 77.5946,
			wantKm: 0, tolerance: 0.001,
		},
		{
			name:   "Bengaluru to Mysuru",
			lat1:   12.9716, lon1: 77.5946,
			lat2:   12.2958, lon2: 76.6394,
			wantKm: 128, tolerance: 5,
		},
		{
			name:   "Across the city",
			lat1:   12.9716, lon1: 77.5946,
			lat2:   12.9352, lon2: 77.6245,
			wantKm: 5.2, tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)

			// Distance is symmetric.
			reverse := CalculateDistance(tt.lat2, tt.lon2, tt.lat1, tt.lon1)
			assert.InDelta(t, got, reverse, 0.0001)
		})
	}
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp := GenerateOTP()
		assert.Len(t, otp, 6)
		for _, ch := range otp {
			assert.True(t, ch >= '0' && ch <= '9')
		}
	}
}

func TestGenerateConfirmationCode(t *testing.T) {
	code := GenerateConfirmationCode(8)
	assert.Len(t, code, 10)
	assert.Equal(t, "BK", code[:2])

	// Ambiguous characters are excluded from the alphabet.
	for _, ch := range code[2:] {
		assert.NotContains(t, "01OI", string(ch))
	}
}

func TestGenerateRandomNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := GenerateRandomNumber(30, 45)
		assert.GreaterOrEqual(t, n, 30)
		assert.LessOrEqual(t, n, 45)
	}
}
