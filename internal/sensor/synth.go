package sensor

import (
	"math"
	"time"

	"github.com/i474232898/smart-insole-relay/internal/common"
)

const (
	// SeriesLength is the number of hourly points in a historical series.
	SeriesLength = 24

	heartRateMin  = 89
	heartRateSpan = 3 // [89, 92)

	temperatureMin  = 36.5
	temperatureSpan = 0.3 // [36.5, 36.8)

	heelFallbackMin   = 50
	middleFallbackMin = 100
	toeFallbackMin    = 75
	fallbackSpan      = 100

	seriesVariation = 0.15
	seriesFloor     = 10
)

// TimestampLayout matches the millisecond UTC format the dashboard parses.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Synthesizer builds readings and series. It holds no state beyond its
// random source and clock, so a single instance serves every request.
type Synthesizer struct {
	rng Random
	now func() time.Time
}

// NewSynthesizer creates a Synthesizer. Nil arguments fall back to the
// process random source and time.Now.
func NewSynthesizer(rng Random, now func() time.Time) *Synthesizer {
	if rng == nil {
		rng = DefaultRandom()
	}
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{rng: rng, now: now}
}

// HeartRate returns an integer in [89, 92).
func (s *Synthesizer) HeartRate() int {
	return heartRateMin + int(math.Floor(s.rng.Float64()*heartRateSpan))
}

// Temperature returns a value in [36.5, 36.8] rounded to one decimal.
func (s *Synthesizer) Temperature() float64 {
	return common.RoundTo(temperatureMin+s.rng.Float64()*temperatureSpan, 1)
}

// TransformReading maps an upstream payload onto a Reading. Vital signs are
// always synthesized locally.
func (s *Synthesizer) TransformReading(p Payload) Reading {
	r := Reading{
		Heel:   float64(p.FSR1),
		Middle: float64(p.FSR2),
		Toe:    float64(p.FSR3),
	}
	r.HeartRate = s.HeartRate()
	r.Temperature = s.Temperature()
	if p.Timestamp != nil {
		ts := string(*p.Timestamp)
		r.Timestamp = &ts
	}
	r.HeelStatus = cloneRaw(p.Status1)
	r.MiddleStatus = cloneRaw(p.Status2)
	r.ToeStatus = cloneRaw(p.Status3)
	return r
}

// FallbackReading fabricates a current reading without any upstream input.
func (s *Synthesizer) FallbackReading() Reading {
	ts := FormatTimestamp(s.now())
	return s.fallbackAt(&ts)
}

// DeriveSeries builds 24 hourly readings around base, each pressure value
// varied by up to ±15% and never below 10.
func (s *Synthesizer) DeriveSeries(base Reading) HistoricalSeries {
	series := make(HistoricalSeries, 0, SeriesLength)
	for _, ts := range s.hours() {
		series = append(series, Reading{
			Heel:        s.vary(base.Heel),
			Middle:      s.vary(base.Middle),
			Toe:         s.vary(base.Toe),
			HeartRate:   s.HeartRate(),
			Temperature: s.Temperature(),
			Timestamp:   ts,
		})
	}
	return series
}

// FallbackSeries fabricates 24 independent hourly readings.
func (s *Synthesizer) FallbackSeries() HistoricalSeries {
	series := make(HistoricalSeries, 0, SeriesLength)
	for _, ts := range s.hours() {
		series = append(series, s.fallbackAt(ts))
	}
	return series
}

func (s *Synthesizer) fallbackAt(ts *string) Reading {
	return Reading{
		Heel:        s.fallbackPressure(heelFallbackMin),
		Middle:      s.fallbackPressure(middleFallbackMin),
		Toe:         s.fallbackPressure(toeFallbackMin),
		HeartRate:   s.HeartRate(),
		Temperature: s.Temperature(),
		Timestamp:   ts,
	}
}

func (s *Synthesizer) fallbackPressure(lowest float64) float64 {
	return lowest + math.Floor(s.rng.Float64()*fallbackSpan)
}

func (s *Synthesizer) vary(v float64) float64 {
	factor := 1 + (s.rng.Float64()*2-1)*seriesVariation
	return common.AtLeast(common.RoundTo(v*factor, 0), seriesFloor)
}

// hours returns the 24 timestamps ending at now, oldest first.
func (s *Synthesizer) hours() []*string {
	now := s.now()
	out := make([]*string, 0, SeriesLength)
	for i := SeriesLength - 1; i >= 0; i-- {
		ts := FormatTimestamp(now.Add(-time.Duration(i) * time.Hour))
		out = append(out, &ts)
	}
	return out
}

// FormatTimestamp renders t as a UTC ISO-8601 instant with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
