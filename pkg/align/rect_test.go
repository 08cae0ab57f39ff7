package align

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/snapguide/pkg/errors"
)

func TestRectDerived(t *testing.T) {
	r := NewRect(10, 20, 100, 50)
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"MinX", r.MinX(), 10},
		{"MaxX", r.MaxX(), 110},
		{"MinY", r.MinY(), 20},
		{"MaxY", r.MaxY(), 70},
		{"MidX", r.MidX(), 60},
		{"MidY", r.MidY(), 45},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	if !r.Contains(0, 0) {
		t.Error("origin should be inside")
	}
	if r.Contains(10, 5) {
		t.Error("max edge should be outside")
	}
	if !r.Contains(9.9, 9.9) {
		t.Error("interior point should be inside")
	}
}

func TestRectValidate(t *testing.T) {
	tests := []struct {
		name    string
		rect    Rect
		wantErr bool
	}{
		{"valid", NewRect(1, 2, 3, 4), false},
		{"zero size", NewRect(-5, -5, 0, 0), false},
		{"negative width", NewRect(0, 0, -1, 4), true},
		{"negative height", NewRect(0, 0, 1, -4), true},
		{"NaN origin", NewRect(math.NaN(), 0, 1, 1), true},
		{"Inf size", NewRect(0, 0, math.Inf(1), 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rect.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestAxisSetJSON(t *testing.T) {
	s := AxisSet(0).Add(Right).Add(CenterY)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["right","center-y"]` {
		t.Errorf("Marshal = %s", data)
	}

	var back AxisSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Errorf("Unmarshal = %v, want %v", back, s)
	}

	empty, _ := json.Marshal(AxisSet(0))
	if string(empty) != "[]" {
		t.Errorf("empty set = %s, want []", empty)
	}
}

func TestParseAxis(t *testing.T) {
	for _, a := range Order {
		got, err := ParseAxis(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAxis(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAxis("diagonal"); err == nil {
		t.Error("ParseAxis(diagonal) should fail")
	}
}
