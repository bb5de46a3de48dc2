package header

import (
	"github.com/reflectivity/orsogo/core/schema"
	"github.com/reflectivity/orsogo/domain/quantity"
)

// Column declares the physical meaning of one data array. The
// physical_quantity key was called dimension in earlier revisions of the
// format; both are accepted, physical_quantity is written.
type Column struct {
	schema.UserData

	Name             string   `orso:"name,required"`
	Unit             string   `orso:"unit"`
	PhysicalQuantity string   `orso:"physical_quantity,alias=dimension"`
	FlagIs           []string `orso:"flag_is"`
	Comment          string   `orso:"comment"`
}

// ErrorColumn declares the uncertainty or resolution of another column,
// referenced by name through error_of.
type ErrorColumn struct {
	schema.UserData

	ErrorOf      string                `orso:"error_of,required"`
	ErrorType    quantity.ErrorType    `orso:"error_type"`
	ValueIs      quantity.ValueIs      `orso:"value_is"`
	Distribution quantity.Distribution `orso:"distribution"`
	Comment      string                `orso:"comment"`
}

// ColumnName returns the conventional display name of the error column.
func (c ErrorColumn) ColumnName() string {
	return "s" + c.ErrorOf
}
