// Package tuner mixes a detected packet candidate to DC and resamples it
// to the profile's demodulation rate.
package tuner

import (
	"fmt"
	"math"

	"github.com/rubsyssec/droneid-demod/internal/dsp"
)

// maxRateSlop is the tolerance window around the target rate within
// which no resampling is attempted.
const maxRateSlop = 100e3

// TuneAndResample mixes samples by -offsetHz and, if the sample rate
// differs from targetRate by more than 100kHz, linearly resamples to
// targetRate. It fails if fs is more than 100kHz below targetRate.
func TuneAndResample(samples []complex128, fs, offsetHz, targetRate float64) ([]complex128, error) {
	tuned := dsp.FreqShift(samples, -offsetHz, fs)

	if math.Abs(fs-targetRate) <= maxRateSlop {
		return tuned, nil
	}
	if fs < targetRate-maxRateSlop {
		return nil, fmt.Errorf("tuner: sample rate %.0f Hz too low for target %.0f Hz", fs, targetRate)
	}
	return dsp.Resample(tuned, fs, targetRate), nil
}
