package header

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/reflectivity/orsogo/core/schema"
	"github.com/reflectivity/orsogo/domain/quantity"
)

const headerDoc = `
data_source:
  owner:
    name: A. Scientist
    affiliation: Paul Scherrer Institut
    contact: a.scientist@psi.ch
  experiment:
    title: Polymer brushes in heavy water
    instrument: Amor
    start_date: 2021-06-11T10:04:00
    probe: neutron
    facility: SINQ
    proposal_id: "20201234"
  sample:
    name: PNIPAM brush on SiO2
    category: solid / liquid
    environment: [D2O, 25C]
    sample_parameters:
      temperature: {magnitude: 298.0, unit: K}
      field: {min: 0.0, max: 1.5, unit: T}
  measurement:
    instrument_settings:
      incident_angle: {min: 0.4, max: 4.0, unit: deg}
      wavelength: {min: 3.0, max: 12.5, unit: angstrom}
      polarization: unpolarized
    data_files:
      - file: amor2021n000123.hdf
        timestamp: 2021-06-11T11:30:00
      - amor2021n000124.hdf
reduction:
  software: {name: eos, version: "1.4"}
  timestamp: 2021-06-12T08:00:00
  creator:
    name: A. Scientist
    affiliation: Paul Scherrer Institut
  corrections:
    - footprint
    - background
columns:
  - {name: Qz, unit: 1/angstrom, physical_quantity: normal_wavevector_transfer}
  - {name: R, physical_quantity: reflectivity}
  - {error_of: R, error_type: uncertainty, value_is: sigma}
  - {error_of: Qz, error_type: resolution}
data_set: spin_up
`

func TestParseFullHeader(t *testing.T) {
	o, err := Parse([]byte(headerDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	exp := o.DataSource.Experiment
	if exp.Probe != ProbeNeutron {
		t.Errorf("Probe = %q, want neutron", exp.Probe)
	}
	want := time.Date(2021, 6, 11, 10, 4, 0, 0, time.UTC)
	if !exp.StartDate.Equal(want) {
		t.Errorf("StartDate = %v, want %v", exp.StartDate, want)
	}

	temp, ok := o.DataSource.Sample.SampleParameters["temperature"].(quantity.Value)
	if !ok || temp.Magnitude != 298.0 || temp.Unit != "K" {
		t.Errorf("temperature = %#v, want Value 298 K", o.DataSource.Sample.SampleParameters["temperature"])
	}
	if _, ok := o.DataSource.Sample.SampleParameters["field"].(quantity.ValueRange); !ok {
		t.Errorf("field = %#v, want ValueRange", o.DataSource.Sample.SampleParameters["field"])
	}

	is := o.DataSource.Measurement.InstrumentSettings
	if _, ok := is.IncidentAngle.(quantity.ValueRange); !ok {
		t.Errorf("IncidentAngle = %#v, want ValueRange", is.IncidentAngle)
	}
	if is.Polarization != quantity.PolarizationUnpolarized {
		t.Errorf("Polarization = %#v, want unpolarized", is.Polarization)
	}

	files := o.DataSource.Measurement.DataFiles
	if len(files) != 2 {
		t.Fatalf("len(DataFiles) = %d, want 2", len(files))
	}
	if f, ok := files[0].(File); !ok || f.File != "amor2021n000123.hdf" || f.Timestamp == nil {
		t.Errorf("DataFiles[0] = %#v, want File with timestamp", files[0])
	}
	if files[1] != "amor2021n000124.hdf" {
		t.Errorf("DataFiles[1] = %#v, want bare filename", files[1])
	}

	if sw, ok := o.Reduction.Software.(Software); !ok || sw.Name != "eos" || sw.Version != "1.4" {
		t.Errorf("Software = %#v, want eos 1.4", o.Reduction.Software)
	}

	if len(o.Columns) != 4 {
		t.Fatalf("len(Columns) = %d, want 4", len(o.Columns))
	}
	if c, ok := o.Columns[0].(Column); !ok || c.Name != "Qz" || c.Unit != "1/angstrom" {
		t.Errorf("Columns[0] = %#v, want Qz column", o.Columns[0])
	}
	ec, ok := o.Columns[2].(ErrorColumn)
	if !ok || ec.ErrorOf != "R" || ec.ErrorType != quantity.ErrorTypeUncertainty {
		t.Errorf("Columns[2] = %#v, want error column of R", o.Columns[2])
	}
	if ec.ColumnName() != "sR" {
		t.Errorf("ColumnName() = %q, want sR", ec.ColumnName())
	}

	if o.DataSet != "spin_up" {
		t.Errorf("DataSet = %#v, want spin_up", o.DataSet)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	o, err := Parse([]byte(headerDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	enc, err := o.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	o2, err := Build(enc)
	if err != nil {
		t.Fatalf("Build(Encode()) error: %v", err)
	}
	if !reflect.DeepEqual(o, o2) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", o2, o)
	}
}

func TestEncodeOmitsPolarizationDefault(t *testing.T) {
	o, err := Parse([]byte(headerDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	enc, err := o.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	ds := enc["data_source"].(map[string]any)
	is := ds["measurement"].(map[string]any)["instrument_settings"].(map[string]any)
	if _, has := is["polarization"]; has {
		t.Error("Encode() emitted polarization at its default")
	}
}

func TestParseInvalidProbe(t *testing.T) {
	doc := map[string]any{
		"data_source": map[string]any{
			"owner": map[string]any{"name": "n", "affiliation": "a"},
			"experiment": map[string]any{
				"title":      "t",
				"instrument": "i",
				"start_date": "2021-01-01",
				"probe":      "electron",
			},
			"sample": map[string]any{"name": "s"},
			"measurement": map[string]any{
				"instrument_settings": map[string]any{
					"incident_angle": map[string]any{"magnitude": 1.0},
					"wavelength":     map[string]any{"magnitude": 4.5},
				},
				"data_files": []any{"f.hdf"},
			},
		},
		"reduction": map[string]any{"software": "eos"},
		"columns":   []any{map[string]any{"name": "Qz"}},
	}
	_, err := Build(doc)
	var serr *schema.Error
	if !errors.As(err, &serr) || serr.Kind != schema.KindInvalidEnumValue {
		t.Fatalf("Build() = %v, want invalid enum value", err)
	}
	if serr.Path != "data_source.experiment.probe" {
		t.Errorf("Path = %q, want data_source.experiment.probe", serr.Path)
	}
	if !reflect.DeepEqual(serr.Allowed, []string{"neutron", "x-ray"}) {
		t.Errorf("Allowed = %v, want the probe set", serr.Allowed)
	}
}

func TestColumnDimensionAlias(t *testing.T) {
	o, err := Build(map[string]any{
		"data_source": map[string]any{
			"owner": map[string]any{"name": "n", "affiliation": "a"},
			"experiment": map[string]any{
				"title": "t", "instrument": "i", "start_date": "2021-01-01", "probe": "x-ray",
			},
			"sample": map[string]any{"name": "s"},
			"measurement": map[string]any{
				"instrument_settings": map[string]any{
					"incident_angle": map[string]any{"magnitude": 1.0},
					"wavelength":     map[string]any{"magnitude": 4.5},
				},
				"data_files": []any{"f.hdf"},
			},
		},
		"reduction": map[string]any{"software": "eos"},
		"columns":   []any{map[string]any{"name": "Qz", "dimension": "wavevector transfer"}},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	c := o.Columns[0].(Column)
	if c.PhysicalQuantity != "wavevector transfer" {
		t.Errorf("PhysicalQuantity = %q, want legacy dimension value", c.PhysicalQuantity)
	}
	enc, err := o.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	col := enc["columns"].([]any)[0].(map[string]any)
	if _, has := col["dimension"]; has {
		t.Error("Encode() kept legacy key dimension")
	}
	if col["physical_quantity"] != "wavevector transfer" {
		t.Errorf("physical_quantity = %v, want carried over", col["physical_quantity"])
	}
}

func TestUnknownKeysSurvive(t *testing.T) {
	o, err := Parse([]byte(headerDoc + "\nmy_instrument_setting: 42\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if o.Extra["my_instrument_setting"] != 42 {
		t.Errorf("Extra = %#v, want my_instrument_setting kept", o.Extra)
	}
	enc, err := o.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if enc["my_instrument_setting"] != 42 {
		t.Error("Encode() dropped the unknown key")
	}
}
