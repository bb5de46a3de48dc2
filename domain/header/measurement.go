package header

import (
	"time"

	"github.com/reflectivity/orsogo/core/schema"
)

// File points at a measurement data file by name. Timestamps are the file's
// last modification, not the measurement time.
type File struct {
	schema.UserData

	File      string     `orso:"file,required"`
	Timestamp *time.Time `orso:"timestamp"`
	Comment   string     `orso:"comment"`
}

// InstrumentSettings are the instrument parameters the measurement was taken
// with. Incident angle and wavelength are single values for angle- or
// energy-dispersive instruments and ranges for scanning ones.
type InstrumentSettings struct {
	schema.UserData

	IncidentAngle any    `orso:"incident_angle,required,oneof=Value|ValueRange"`
	Wavelength    any    `orso:"wavelength,required,oneof=Value|ValueRange"`
	Polarization  any    `orso:"polarization,oneof=Polarization|ValueVector,default=unpolarized"`
	Configuration string `orso:"configuration"`
	Comment       string `orso:"comment"`
}

// Measurement lists the instrument settings and the data files the dataset
// was reduced from.
type Measurement struct {
	schema.UserData

	InstrumentSettings InstrumentSettings `orso:"instrument_settings,required"`
	DataFiles          []any              `orso:"data_files,required,oneof=File|string"`
	AdditionalFiles    []any              `orso:"additional_files,oneof=File|string"`
	Scheme             string             `orso:"scheme"`
	Comment            string             `orso:"comment"`
}
