package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlexStringsUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"array", `["fantasy","sci-fi"]`, []string{"fantasy", "sci-fi"}},
		{"comma string", `"fantasy, sci-fi"`, []string{"fantasy", "sci-fi"}},
		{"mixed delimiters", `"fantasy; sci-fi | horror"`, []string{"fantasy", "sci-fi", "horror"}},
		{"empty entries dropped", `"fantasy,,  ,sci-fi"`, []string{"fantasy", "sci-fi"}},
		{"null", `null`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f FlexStrings
			if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tc.in, err)
			}
			if !reflect.DeepEqual(f.Slice(), tc.want) && !(len(f) == 0 && len(tc.want) == 0) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tc.in, f.Slice(), tc.want)
			}
		})
	}
}
