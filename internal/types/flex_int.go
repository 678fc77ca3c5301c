package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// FlexInt is an int that tolerates sloppy JSON input: numbers (rounded),
// numeric strings, or garbage. Anything unparseable decodes to zero instead
// of failing, so a nonsense requested loan duration falls back to the
// default rather than rejecting the request.
type FlexInt int

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		if !math.IsNaN(n) && !math.IsInf(n, 0) {
			*f = FlexInt(math.Round(n))
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexInt(math.Round(v))
		}
		return nil
	}

	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// Int converts FlexInt back to int.
func (f FlexInt) Int() int {
	return int(f)
}
