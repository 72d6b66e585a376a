package models

import "time"

// Sample is one consolidated RRD row. In and Out are in the data source's
// native unit, octets per second for Observium port RRDs.
type Sample struct {
	Timestamp time.Time
	In        float64
	Out       float64
}

// BitsPerSecond returns the busier direction of the sample in bits/s.
func (s Sample) BitsPerSecond() float64 {
	return max(s.In, s.Out) * 8
}

// Series is an ordered run of samples for a single port.
type Series []Sample

// Rates returns the per-sample billable rate in bits/s.
func (s Series) Rates() []float64 {
	rates := make([]float64, len(s))
	for i, sample := range s {
		rates[i] = sample.BitsPerSecond()
	}
	return rates
}

// Monotonic reports whether timestamps strictly increase.
func (s Series) Monotonic() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Timestamp.After(s[i-1].Timestamp) {
			return false
		}
	}
	return true
}
