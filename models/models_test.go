package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSpecifications_JSON(t *testing.T) {
	specs := Specifications{}.
		Add("Colour", "Black").
		Add("DPI", "1600").
		Add("Colour", "White")

	data, err := json.Marshal(specs)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"Colour":["Black","White"],"DPI":"1600"}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back Specifications
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, specs) {
		t.Errorf("round trip = %+v, want %+v", back, specs)
	}
}

func TestSpecifications_YAMLKeepsOrder(t *testing.T) {
	specs := Specifications{}.Add("Weight", "78 g").Add("Battery", "AA")
	data, err := yaml.Marshal(specs)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Index(out, "Weight") > strings.Index(out, "Battery") {
		t.Errorf("keys out of order:\n%s", out)
	}
}

func TestScalar(t *testing.T) {
	tests := []struct {
		name string
		s    *Scalar
		set  bool
		json string
	}{
		{"nil", nil, false, "null"},
		{"number", NumberScalar("1999"), true, "1999"},
		{"decimal", NumberScalar("19.90"), true, "19.90"},
		{"zero", NumberScalar("0"), false, "0"},
		{"string", StringScalar("₹2,499.00"), true, `"₹2,499.00"`},
		{"empty", StringScalar(""), false, `""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsSet(); got != tt.set {
				t.Errorf("IsSet() = %v, want %v", got, tt.set)
			}
			data, err := json.Marshal(tt.s)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.json {
				t.Errorf("Marshal() = %s, want %s", data, tt.json)
			}
		})
	}
}

func TestNewExtractError(t *testing.T) {
	plain := NewExtractError("https://example.com/p", fmt.Errorf("dial tcp: refused"))
	if plain.URL != "https://example.com/p" || plain.Error != "dial tcp: refused" || plain.StatusCode != 0 {
		t.Errorf("plain = %+v", plain)
	}

	wrapped := NewExtractError("https://example.com/p", fmt.Errorf("fetch: %w", statusErr(503)))
	if wrapped.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want 503", wrapped.StatusCode)
	}
}

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

func TestPenalties(t *testing.T) {
	p := Penalties{MissingPrice: -5, ThinContent: -8}
	if p.Total() != -13 {
		t.Errorf("Total() = %d", p.Total())
	}
	applied := p.Applied()
	if len(applied) != 2 || applied[0].Name != "missing_price" || applied[1].Name != "thin_content" {
		t.Errorf("Applied() = %+v", applied)
	}
}

func TestBandDescription(t *testing.T) {
	if got := BandGood.Description(); !strings.HasPrefix(got, "Good") {
		t.Errorf("Description() = %q", got)
	}
	if got := Band("").Description(); !strings.HasPrefix(got, "Critical") {
		t.Errorf("unknown band = %q", got)
	}
}
