// Package header defines the typed ORSO reflectometry header: the entity
// graph rooted at Orso, built from untyped nested mappings by the generic
// engine in core/schema. The package never touches files; the text and
// binary containers hand it one raw mapping per dataset and take one back.
package header

import (
	"gopkg.in/yaml.v3"

	"github.com/reflectivity/orsogo/core/schema"
)

// FormatVersion is the ORSO file format revision this model implements.
const FormatVersion = "1.1"

// Orso is the root of the header.
type Orso struct {
	schema.UserData

	DataSource DataSource `orso:"data_source,required"`
	Reduction  Reduction  `orso:"reduction,required"`
	Columns    []any      `orso:"columns,required,oneof=Column|ErrorColumn"`
	DataSet    any        `orso:"data_set,oneof=int|string"`
	Comment    string     `orso:"comment"`
}

func init() {
	schema.Register[Person]("Person")
	schema.Register[Software]("Software")
	schema.Register[File]("File")
	schema.Register[Column]("Column")
	schema.Register[ErrorColumn]("ErrorColumn")
}

// Parse builds a typed header from one YAML document, as extracted from the
// comment block of an .ort file or the attribute tree of an .orb file.
func Parse(data []byte) (*Orso, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return schema.Build[Orso](raw)
}

// Build constructs a header from an already-decoded mapping.
func Build(raw map[string]any) (*Orso, error) {
	return schema.Build[Orso](raw)
}

// Encode re-emits the header as a minimal mapping, omitting every field
// still at its declared default.
func (o *Orso) Encode() (map[string]any, error) {
	return schema.Encode(o)
}

// ToYAML renders the encoded header. Framing (comment prefixes, the format
// version banner, numeric formatting) stays with the container.
func (o *Orso) ToYAML() ([]byte, error) {
	enc, err := o.Encode()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(enc)
}
