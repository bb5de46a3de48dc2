// Package dataset pairs a resolved header with its numeric data matrix and
// implements the multi-dataset file semantics: consecutive datasets share a
// header, and only the fields that changed are carried per dataset.
package dataset

import (
	"fmt"

	"github.com/reflectivity/orsogo/domain/header"
)

// OrsoDataset is one dataset of a file: the header and the data rows. The
// number of values per row must match the header's column declarations.
type OrsoDataset struct {
	Info *header.Orso
	Data [][]float64
}

// ColumnCountMismatchError reports a row whose width disagrees with the
// header's column declarations.
type ColumnCountMismatchError struct {
	Expected int
	Got      int
	Row      int
}

func (e *ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("column count mismatch: header declares %d columns, row %d has %d values", e.Expected, e.Got, e.Row)
}

// Validate checks every data row against the column declarations.
func (d *OrsoDataset) Validate() error {
	want := len(d.Info.Columns)
	for i, row := range d.Data {
		if len(row) != want {
			return &ColumnCountMismatchError{Expected: want, Got: len(row), Row: i}
		}
	}
	return nil
}

// Block is what the container writes for one dataset: the header delta and
// the dimensions of the data matrix. The container owns framing and numeric
// formatting.
type Block struct {
	Delta   map[string]any
	Rows    int
	Columns int
}

// Deltas validates each dataset and produces its emission block. The first
// block carries the full encoded header; every later block carries the deep
// structural difference against the previous dataset's effective header.
func Deltas(sets []*OrsoDataset) ([]Block, error) {
	out := make([]Block, 0, len(sets))
	var prev map[string]any
	for i, ds := range sets {
		if err := ds.Validate(); err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		enc, err := ds.Info.Encode()
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		delta := enc
		if prev != nil {
			delta = Diff(prev, enc)
		}
		out = append(out, Block{Delta: delta, Rows: len(ds.Data), Columns: len(ds.Info.Columns)})
		prev = enc
	}
	return out, nil
}

// Effective reconstructs each dataset's full header mapping from a delta
// sequence, the read-direction inverse of Deltas. The first delta merges
// onto an empty header.
func Effective(deltas []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(deltas))
	current := map[string]any{}
	for _, d := range deltas {
		current = Merge(current, d)
		out = append(out, current)
	}
	return out
}
