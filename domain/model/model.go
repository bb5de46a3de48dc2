// Package model implements the ORSO simplified sample-model language: named
// layer, material, composite and sub-stack definitions plus a pipe-delimited
// stack expression, resolved into a flat, fully numeric layer sequence.
package model

import (
	"gopkg.in/yaml.v3"

	"github.com/reflectivity/orsogo/core/schema"
)

// SampleModel is the root of a sample description. The stack expression is
// an ordered, pipe-delimited list of names resolved against the named maps;
// those relations are by name only and expanded at resolve time.
type SampleModel struct {
	schema.UserData

	Stack     string               `orso:"stack,required"`
	Origin    string               `orso:"origin"`
	Layers    map[string]Layer     `orso:"layers"`
	Materials map[string]Material  `orso:"materials"`
	Composits map[string]Composit  `orso:"composits"`
	SubStacks map[string]any       `orso:"sub_stacks,oneof=ItemChanger|FunctionTwoElements|SubStack"`
	Globals   *ModelParameters     `orso:"globals"`
	Reference string               `orso:"reference"`
	Comment   string               `orso:"comment"`
}

// ModelParameters carries model-wide defaults applied wherever a definition
// leaves a field open.
type ModelParameters struct {
	schema.UserData

	Roughness          any    `orso:"roughness,oneof=float|Value"`
	LengthUnit         string `orso:"length_unit"`
	MassDensityUnit    string `orso:"mass_density_unit"`
	NumberDensityUnit  string `orso:"number_density_unit"`
	SLDUnit            string `orso:"sld_unit"`
	MagneticMomentUnit string `orso:"magnetic_moment_unit"`
	SliceResolution    any    `orso:"slice_resolution,oneof=float|Value"`
	DefaultSolvent     any    `orso:"default_solvent,oneof=Material|Composit|string"`
}

// Layer is one slab of the stack. Material may be an inline Material or
// Composit, or the name of one; alternatively a composition mapping mixes
// several named materials by fraction.
type Layer struct {
	schema.UserData

	Thickness   any                `orso:"thickness,oneof=float|Value"`
	Roughness   any                `orso:"roughness,oneof=float|Value"`
	Material    any                `orso:"material,oneof=Material|Composit|string"`
	Composition map[string]float64 `orso:"composition"`
	Comment     string             `orso:"comment"`
}

// Material describes a substance. In a well-formed file only one of the
// density-like fields is set; the model records what it is given and leaves
// mutual exclusivity to validation outside the resolver.
type Material struct {
	schema.UserData

	Formula         string   `orso:"formula"`
	MassDensity     any      `orso:"mass_density,oneof=float|Value"`
	NumberDensity   any      `orso:"number_density,oneof=float|Value"`
	SLD             any      `orso:"sld,oneof=float|ComplexValue|Value"`
	RelativeDensity *float64 `orso:"relative_density"`
	MagneticMoment  any      `orso:"magnetic_moment,oneof=float|Value"`
	Comment         string   `orso:"comment"`
}

// Composit is a material mixed from other named materials or composites.
// Fractions need not sum to one; the resolver normalizes when they do not.
type Composit struct {
	schema.UserData

	Composition map[string]float64 `orso:"composition,required"`
	Comment     string             `orso:"comment"`
}

// SubStack groups layers for repetition. Stack and Sequence are two views of
// the same concept and are mutually exclusive per instance.
type SubStack struct {
	schema.UserData

	Repetitions int     `orso:"repetitions,default=1"`
	Stack       string  `orso:"stack"`
	Sequence    []Layer `orso:"sequence"`
	Environment any     `orso:"environment,oneof=Material|Composit|string"`
	Comment     string  `orso:"comment"`
}

// ItemChanger clones another named definition and overrides selected fields.
// Keys in But may use dotted paths for nested overrides.
type ItemChanger struct {
	schema.UserData

	Like string         `orso:"like,required"`
	But  map[string]any `orso:"but,required"`
}

// FunctionTwoElements declares a continuous transition between two named
// materials over a thickness, discretized into slices of roughly
// slice_resolution each and weighted by the named function.
type FunctionTwoElements struct {
	schema.UserData

	Material1       string `orso:"material1,required"`
	Material2       string `orso:"material2,required"`
	Function        string `orso:"function,required"`
	Thickness       any    `orso:"thickness,oneof=float|Value"`
	Roughness       any    `orso:"roughness,oneof=float|Value"`
	SliceResolution any    `orso:"slice_resolution,oneof=float|Value"`
}

func init() {
	schema.Register[Layer]("Layer")
	schema.Register[Material]("Material")
	schema.Register[Composit]("Composit")
	schema.Register[SubStack]("SubStack")
	schema.Register[ItemChanger]("ItemChanger")
	schema.Register[FunctionTwoElements]("FunctionTwoElements")
}

// Parse decodes a YAML document into a SampleModel.
func Parse(data []byte) (*SampleModel, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return schema.Build[SampleModel](raw)
}

// ToYAML re-encodes the model with defaults omitted.
func (m *SampleModel) ToYAML() ([]byte, error) {
	enc, err := schema.Encode(m)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(enc)
}
