package sensor

import (
	"bytes"
	"encoding/json"
)

// Reading is one point-in-time sample in the shape the dashboard expects.
// Heel/Middle/Toe are force-sensitive-resistor readings on three foot zones.
type Reading struct {
	Heel        float64 `json:"heel"`
	Middle      float64 `json:"middle"`
	Toe         float64 `json:"toe"`
	HeartRate   int     `json:"heartRate"`
	Temperature float64 `json:"temperature"`
	Timestamp   *string `json:"timestamp,omitempty"`

	// Status codes are only set on readings built from a real upstream payload.
	HeelStatus   json.RawMessage `json:"heelStatus,omitempty"`
	MiddleStatus json.RawMessage `json:"middleStatus,omitempty"`
	ToeStatus    json.RawMessage `json:"toeStatus,omitempty"`
}

// HasStatus reports whether any of the pass-through status fields is set.
func (r Reading) HasStatus() bool {
	return len(r.HeelStatus) > 0 || len(r.MiddleStatus) > 0 || len(r.ToeStatus) > 0
}

// TimestampValue returns the timestamp, or "" when it is absent.
func (r Reading) TimestampValue() string {
	if r.Timestamp == nil {
		return ""
	}
	return *r.Timestamp
}

// HistoricalSeries is an hourly series of readings, oldest first.
type HistoricalSeries []Reading

// Payload is the body returned by the upstream /api/latest endpoint.
// Every field is optional.
type Payload struct {
	FSR1      Pressure        `json:"fsr1"`
	FSR2      Pressure        `json:"fsr2"`
	FSR3      Pressure        `json:"fsr3"`
	Timestamp *LooseString    `json:"timestamp"`
	Status1   json.RawMessage `json:"status1"`
	Status2   json.RawMessage `json:"status2"`
	Status3   json.RawMessage `json:"status3"`
}

// DecodePayload parses an upstream body. Anything that is not a JSON object
// yields an empty payload rather than an error.
func DecodePayload(body []byte) (Payload, bool) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, false
	}
	return p, true
}

// Pressure is a numeric upstream field. Values that are missing, null,
// non-numeric or negative decode to zero.
type Pressure float64

func (p *Pressure) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil || v < 0 {
		*p = 0
		return nil
	}
	*p = Pressure(v)
	return nil
}

// LooseString decodes JSON strings; every other non-null type decodes to "".
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = LooseString(v)
	return nil
}

// cloneRaw copies a raw status value so readings never alias the payload buffer.
func cloneRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return json.RawMessage(bytes.Clone(raw))
}
