package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectivity/orsogo/domain/header"
)

func testHeader(t *testing.T, dataSet any) *header.Orso {
	t.Helper()
	raw := map[string]any{
		"data_source": map[string]any{
			"owner": map[string]any{"name": "A. Scientist", "affiliation": "ESS"},
			"experiment": map[string]any{
				"title":      "spin asymmetry",
				"instrument": "Estia",
				"start_date": "2023-03-01",
				"probe":      "neutron",
			},
			"sample": map[string]any{"name": "Fe/Si multilayer"},
			"measurement": map[string]any{
				"instrument_settings": map[string]any{
					"incident_angle": map[string]any{"magnitude": 0.8, "unit": "deg"},
					"wavelength":     map[string]any{"min": 4.0, "max": 10.0, "unit": "angstrom"},
					"polarization":   "pp",
				},
				"data_files": []any{"estia2023n000042.hdf"},
			},
		},
		"reduction": map[string]any{"software": map[string]any{"name": "ess-reduce", "version": "0.9"}},
		"columns": []any{
			map[string]any{"name": "Qz", "unit": "1/angstrom"},
			map[string]any{"name": "R"},
			map[string]any{"error_of": "R"},
		},
	}
	if dataSet != nil {
		raw["data_set"] = dataSet
	}
	o, err := header.Build(raw)
	require.NoError(t, err)
	return o
}

func TestValidate(t *testing.T) {
	ds := &OrsoDataset{
		Info: testHeader(t, nil),
		Data: [][]float64{{0.01, 0.98, 0.01}, {0.02, 0.71, 0.02}},
	}
	require.NoError(t, ds.Validate())

	ds.Data = append(ds.Data, []float64{0.03, 0.55})
	err := ds.Validate()
	var cerr *ColumnCountMismatchError
	require.True(t, errors.As(err, &cerr), "Validate() = %v, want *ColumnCountMismatchError", err)
	assert.Equal(t, 3, cerr.Expected)
	assert.Equal(t, 2, cerr.Got)
	assert.Equal(t, 2, cerr.Row)
}

func TestDeltasIdenticalHeaders(t *testing.T) {
	sets := []*OrsoDataset{
		{Info: testHeader(t, nil), Data: [][]float64{{1, 2, 3}}},
		{Info: testHeader(t, nil), Data: [][]float64{{4, 5, 6}, {7, 8, 9}}},
	}
	blocks, err := Deltas(sets)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.NotEmpty(t, blocks[0].Delta, "first block carries the full header")
	assert.Empty(t, blocks[1].Delta, "identical headers leave nothing to repeat")
	assert.Equal(t, 2, blocks[1].Rows)
	assert.Equal(t, 3, blocks[1].Columns)
}

func TestDeltasChangedField(t *testing.T) {
	first := testHeader(t, "spin_up")
	second := testHeader(t, "spin_down")
	second.DataSource.Measurement.InstrumentSettings.Polarization = "pm"

	blocks, err := Deltas([]*OrsoDataset{
		{Info: first, Data: [][]float64{{1, 2, 3}}},
		{Info: second, Data: [][]float64{{1, 2, 3}}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"data_set": "spin_down",
		"data_source": map[string]any{
			"measurement": map[string]any{
				"instrument_settings": map[string]any{
					"polarization": "pm",
				},
			},
		},
	}, blocks[1].Delta)
}

func TestDeltasValidatesRows(t *testing.T) {
	_, err := Deltas([]*OrsoDataset{
		{Info: testHeader(t, nil), Data: [][]float64{{1, 2}}},
	})
	var cerr *ColumnCountMismatchError
	require.True(t, errors.As(err, &cerr), "Deltas() = %v, want column count mismatch", err)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev map[string]any
		cur  map[string]any
		want map[string]any
	}{
		{
			"identical",
			map[string]any{"a": 1, "b": map[string]any{"c": 2}},
			map[string]any{"a": 1, "b": map[string]any{"c": 2}},
			map[string]any{},
		},
		{
			"scalar change",
			map[string]any{"a": 1},
			map[string]any{"a": 2},
			map[string]any{"a": 2},
		},
		{
			"nested change keeps only the path",
			map[string]any{"a": map[string]any{"x": 1, "y": 2}},
			map[string]any{"a": map[string]any{"x": 1, "y": 3}},
			map[string]any{"a": map[string]any{"y": 3}},
		},
		{
			"added key",
			map[string]any{},
			map[string]any{"a": 1},
			map[string]any{"a": 1},
		},
		{
			"removed key becomes null",
			map[string]any{"a": 1, "b": 2},
			map[string]any{"a": 1},
			map[string]any{"b": nil},
		},
		{
			"type change replaces wholesale",
			map[string]any{"a": map[string]any{"x": 1}},
			map[string]any{"a": "scalar"},
			map[string]any{"a": "scalar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.prev, tt.cur))
		})
	}
}

// Merge(prev, Diff(prev, cur)) reconstructs cur for any pair of headers.
func TestDiffMergeRoundTrip(t *testing.T) {
	prev := map[string]any{
		"a":    1,
		"b":    map[string]any{"x": 1, "y": map[string]any{"deep": true}},
		"gone": "soon",
	}
	cur := map[string]any{
		"a":   2,
		"b":   map[string]any{"x": 1, "y": map[string]any{"deep": false}, "z": 9},
		"new": []any{1, 2},
	}
	assert.Equal(t, cur, Merge(prev, Diff(prev, cur)))
}

func TestMergeDoesNotMutateBase(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1}}
	Merge(base, map[string]any{"a": map[string]any{"x": 2}})
	assert.Equal(t, 1, base["a"].(map[string]any)["x"])
}

func TestEffective(t *testing.T) {
	sets := []*OrsoDataset{
		{Info: testHeader(t, "up"), Data: [][]float64{{1, 2, 3}}},
		{Info: testHeader(t, "down"), Data: [][]float64{{1, 2, 3}}},
	}
	blocks, err := Deltas(sets)
	require.NoError(t, err)

	deltas := make([]map[string]any, len(blocks))
	for i, b := range blocks {
		deltas[i] = b.Delta
	}
	eff := Effective(deltas)
	for i, ds := range sets {
		enc, err := ds.Info.Encode()
		require.NoError(t, err)
		assert.Equal(t, enc, eff[i], "dataset %d", i)
	}
}
