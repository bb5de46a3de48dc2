package model

import (
	"errors"
	"testing"
)

func TestParseStack(t *testing.T) {
	th := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		expr string
		want []stackItem
	}{
		{
			"plain names",
			"air | water | Si",
			[]stackItem{{name: "air"}, {name: "water"}, {name: "Si"}},
		},
		{
			"trailing thickness",
			"air | SiO2 0.55 | Si",
			[]stackItem{{name: "air"}, {name: "SiO2", thickness: th(0.55)}, {name: "Si"}},
		},
		{
			"name with spaces",
			"natural silicon oxide 0.55",
			[]stackItem{{name: "natural silicon oxide", thickness: th(0.55)}},
		},
		{
			"repeated group",
			"air | 19 ( V 2.1 | Fe 1.7 ) | Si",
			[]stackItem{
				{name: "air"},
				{group: "V 2.1 | Fe 1.7", repetitions: 19},
				{name: "Si"},
			},
		},
		{
			"group without count",
			"( head | tail )",
			[]stackItem{{group: "head | tail", repetitions: 1}},
		},
		{
			"group environment",
			"5 ( head | tail ) in D2O",
			[]stackItem{{group: "head | tail", repetitions: 5, environment: "D2O"}},
		},
		{
			"nested groups",
			"2 ( a | 3 ( b | c ) )",
			[]stackItem{{group: "a | 3 ( b | c )", repetitions: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStack(tt.expr)
			if err != nil {
				t.Fatalf("parseStack(%q) error: %v", tt.expr, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseStack(%q) = %d items, want %d", tt.expr, len(got), len(tt.want))
			}
			for i := range got {
				g, w := got[i], tt.want[i]
				if g.name != w.name || g.group != w.group || g.repetitions != w.repetitions || g.environment != w.environment {
					t.Errorf("item %d = %+v, want %+v", i, g, w)
				}
				switch {
				case (g.thickness == nil) != (w.thickness == nil):
					t.Errorf("item %d thickness presence mismatch", i)
				case g.thickness != nil && *g.thickness != *w.thickness:
					t.Errorf("item %d thickness = %v, want %v", i, *g.thickness, *w.thickness)
				}
			}
		})
	}
}

func TestParseStackErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"unbalanced open", "2 ( a | b"},
		{"unbalanced close", "a ) | b"},
		{"empty item", "a || b"},
		{"trailing pipe", "a | b |"},
		{"zero repetitions", "0 ( a )"},
		{"junk after group", "( a ) nonsense"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseStack(tt.expr)
			var rerr *ResolveError
			if !errors.As(err, &rerr) {
				t.Fatalf("parseStack(%q) = %v, want *ResolveError", tt.expr, err)
			}
			if rerr.Kind != KindInvalidDefinition {
				t.Errorf("Kind = %s, want %s", rerr.Kind, KindInvalidDefinition)
			}
		})
	}
}
