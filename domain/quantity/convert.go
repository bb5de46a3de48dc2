package quantity

import "fmt"

// Converter is the injected unit-conversion capability. The core records
// units as opaque strings and never converts implicitly; callers that need
// normalization supply a Converter and invoke it explicitly.
type Converter func(magnitude float64, from, to string) (float64, error)

// ConvertTo returns a copy of the value normalized to the given unit using
// the supplied converter. A value without a unit is returned unchanged when
// the target unit is empty, otherwise conversion from the empty unit is up
// to the converter.
func (v Value) ConvertTo(unit string, convert Converter) (Value, error) {
	if convert == nil {
		return Value{}, fmt.Errorf("convert %q to %q: no converter supplied", v.Unit, unit)
	}
	if v.Unit == unit {
		return v, nil
	}
	m, err := convert(v.Magnitude, v.Unit, unit)
	if err != nil {
		return Value{}, fmt.Errorf("convert %q to %q: %w", v.Unit, unit, err)
	}
	out := v
	out.Magnitude = m
	out.Unit = unit
	return out, nil
}
