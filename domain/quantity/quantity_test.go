package quantity

import (
	"errors"
	"reflect"
	"testing"

	"github.com/reflectivity/orsogo/core/schema"
)

func TestValueBuild(t *testing.T) {
	v, err := schema.Build[Value](map[string]any{
		"magnitude": 5.5,
		"unit":      "nm",
		"error":     map[string]any{"error_value": 0.1, "error_type": "resolution"},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if v.Magnitude != 5.5 || v.Unit != "nm" {
		t.Errorf("got %+v, want magnitude 5.5 nm", v)
	}
	if v.Error == nil || v.Error.ErrorValue != 0.1 || v.Error.ErrorType != ErrorTypeResolution {
		t.Errorf("Error = %+v, want resolution 0.1", v.Error)
	}
}

func TestValueRangeRequiresBounds(t *testing.T) {
	_, err := schema.Build[ValueRange](map[string]any{"min": 0.1, "unit": "nm"})
	var serr *schema.Error
	if !errors.As(err, &serr) || serr.Kind != schema.KindMissingRequiredField {
		t.Fatalf("Build() = %v, want missing required max", err)
	}
	if serr.Path != "max" {
		t.Errorf("Path = %q, want max", serr.Path)
	}
}

// min above max is legal: the order of the scan, not a sorted interval.
func TestValueRangeUnorderedBounds(t *testing.T) {
	v, err := schema.Build[ValueRange](map[string]any{"min": 12.5, "max": 3.0, "unit": "angstrom"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if v.Min != 12.5 || v.Max != 3.0 {
		t.Errorf("got %+v, want bounds kept as given", v)
	}
}

func TestValueVectorRequiresAllAxes(t *testing.T) {
	_, err := schema.Build[ValueVector](map[string]any{"x": 1.0, "y": 2.0, "unit": "mm"})
	var serr *schema.Error
	if !errors.As(err, &serr) || serr.Kind != schema.KindMissingRequiredField {
		t.Fatalf("Build() = %v, want missing required z", err)
	}
	if serr.Path != "z" {
		t.Errorf("Path = %q, want z", serr.Path)
	}
}

func TestComplexValue(t *testing.T) {
	v, err := schema.Build[ComplexValue](map[string]any{"real": 6.2, "imag": -0.3})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := v.Complex(); got != complex(6.2, -0.3) {
		t.Errorf("Complex() = %v, want (6.2-0.3i)", got)
	}
}

func TestPolarizationValues(t *testing.T) {
	_, err := schema.Build[struct {
		schema.UserData
		P Polarization `orso:"polarization"`
	}](map[string]any{"polarization": "po"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	_, err = schema.Build[struct {
		schema.UserData
		P Polarization `orso:"polarization"`
	}](map[string]any{"polarization": "up"})
	var serr *schema.Error
	if !errors.As(err, &serr) || serr.Kind != schema.KindInvalidEnumValue {
		t.Fatalf("Build() = %v, want invalid enum value", err)
	}
}

func TestConvertTo(t *testing.T) {
	tenth := func(m float64, from, to string) (float64, error) {
		if from != "angstrom" || to != "nm" {
			return 0, errors.New("unsupported pair")
		}
		return m / 10, nil
	}

	v := Value{Magnitude: 12, Unit: "angstrom"}
	got, err := v.ConvertTo("nm", tenth)
	if err != nil {
		t.Fatalf("ConvertTo() error: %v", err)
	}
	if got.Magnitude != 1.2 || got.Unit != "nm" {
		t.Errorf("ConvertTo() = %+v, want 1.2 nm", got)
	}

	same, err := v.ConvertTo("angstrom", tenth)
	if err != nil || !reflect.DeepEqual(same, v) {
		t.Errorf("ConvertTo(same unit) = %+v, %v; want identity", same, err)
	}

	if _, err := v.ConvertTo("nm", nil); err == nil {
		t.Error("ConvertTo(nil converter) succeeded, want error")
	}
}
