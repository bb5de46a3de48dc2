// Package quantity holds the typed value primitives of the ORSO header:
// scalar values with units, ranges, vectors, complex values and their
// uncertainty descriptors. Units are recorded as opaque strings; conversion
// arithmetic is delegated to an injected Converter.
package quantity

import (
	"github.com/reflectivity/orsogo/core/schema"
)

// Value is a single magnitude with an optional unit, offset and error.
type Value struct {
	schema.UserData

	Magnitude float64     `orso:"magnitude,required"`
	Unit      string      `orso:"unit"`
	Offset    *float64    `orso:"offset"`
	Error     *ErrorValue `orso:"error"`
	Comment   string      `orso:"comment"`
}

// ValueRange is a span between two magnitudes. Min and max are deliberately
// not ordered by the model: a scan may run in either direction.
type ValueRange struct {
	schema.UserData

	Min                  float64   `orso:"min,required"`
	Max                  float64   `orso:"max,required"`
	Unit                 string    `orso:"unit"`
	Offset               *float64  `orso:"offset"`
	IndividualMagnitudes []float64 `orso:"individual_magnitudes"`
	Comment              string    `orso:"comment"`
}

// ValueVector is a three-component vector; all three axes are required
// together.
type ValueVector struct {
	schema.UserData

	X       float64     `orso:"x,required"`
	Y       float64     `orso:"y,required"`
	Z       float64     `orso:"z,required"`
	Unit    string      `orso:"unit"`
	Error   *ErrorValue `orso:"error"`
	Comment string      `orso:"comment"`
}

// ComplexValue is a complex magnitude, used mainly for scattering length
// densities with absorption.
type ComplexValue struct {
	schema.UserData

	Real    float64     `orso:"real,required"`
	Imag    float64     `orso:"imag"`
	Unit    string      `orso:"unit"`
	Error   *ErrorValue `orso:"error"`
	Comment string      `orso:"comment"`
}

// Complex returns the value as a complex128.
func (c ComplexValue) Complex() complex128 {
	return complex(c.Real, c.Imag)
}

// ErrorValue qualifies the uncertainty or resolution of another value.
type ErrorValue struct {
	schema.UserData

	ErrorValue   float64      `orso:"error_value,required"`
	ErrorType    ErrorType    `orso:"error_type"`
	ValueIs      ValueIs      `orso:"value_is"`
	Distribution Distribution `orso:"distribution"`
	Comment      string       `orso:"comment"`
}

func init() {
	schema.Register[Value]("Value")
	schema.Register[ValueRange]("ValueRange")
	schema.Register[ValueVector]("ValueVector")
	schema.Register[ComplexValue]("ComplexValue")
	schema.Register[ErrorValue]("ErrorValue")
	schema.Register[Polarization]("Polarization")
}
