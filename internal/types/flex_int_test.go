package types

import (
	"encoding/json"
	"testing"
)

func TestFlexIntUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"number", `7`, 7},
		{"float rounds", `7.6`, 8},
		{"numeric string", `"7"`, 7},
		{"garbage string falls back to zero", `"abc"`, 0},
		{"null", `null`, 0},
		{"negative", `-5`, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f FlexInt
			if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tc.in, err)
			}
			if f.Int() != tc.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tc.in, f.Int(), tc.want)
			}
		})
	}
}

func TestFlexIntInStruct(t *testing.T) {
	var payload struct {
		DurationDays FlexInt `json:"durationDays"`
	}

	// Omitted field decodes to zero
	if err := json.Unmarshal([]byte(`{}`), &payload); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if payload.DurationDays.Int() != 0 {
		t.Errorf("Omitted = %d, want 0", payload.DurationDays.Int())
	}

	// String-typed number still parses
	if err := json.Unmarshal([]byte(`{"durationDays":"14"}`), &payload); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if payload.DurationDays.Int() != 14 {
		t.Errorf("String number = %d, want 14", payload.DurationDays.Int())
	}
}

func TestFlexIntMarshal(t *testing.T) {
	b, err := json.Marshal(FlexInt(3))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != "3" {
		t.Errorf("Marshal = %s, want 3", b)
	}
}
