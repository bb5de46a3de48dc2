package model

import (
	"math"
	"reflect"
	"strings"

	"github.com/reflectivity/orsogo/core/schema"
	"github.com/reflectivity/orsogo/domain/quantity"
)

// ResolvedLayer is a concrete slab with no remaining named references.
// Thickness and roughness are in the model's length unit.
type ResolvedLayer struct {
	Name      string
	Thickness float64
	Roughness float64
	SLD       complex128
}

// MaterialResolver supplies scattering length densities for materials that
// only declare a chemical formula. Implementations typically wrap an
// external density database; the database itself is not part of this core.
type MaterialResolver interface {
	SLDFromFormula(formula string) (complex128, error)
}

// Option configures a resolution run.
type Option func(*resolver)

// WithMaterialResolver enables formula-based SLD lookup for names that match
// no definition in the model.
func WithMaterialResolver(mr MaterialResolver) Option {
	return func(r *resolver) { r.lookup = mr }
}

// WithConverter normalizes thickness-like values carrying an explicit unit
// into the model's length unit. Without it, magnitudes are used as given.
func WithConverter(c quantity.Converter) Option {
	return func(r *resolver) { r.convert = c }
}

// WithSubstrateFirst reverses the output so the substrate comes first. The
// reading direction is a resolver choice, never encoded per file.
func WithSubstrateFirst() Option {
	return func(r *resolver) { r.substrateFirst = true }
}

// Resolve expands the model's stack expression into an ordered, fully
// concrete layer sequence. Every stack token contributes its layers in
// token order; ambient and substrate entries appear as zero-thickness
// boundary layers. Any unresolved reference or cyclic definition aborts the
// whole resolution.
func Resolve(m *SampleModel, opts ...Option) ([]ResolvedLayer, error) {
	r := &resolver{model: m, params: effectiveParams(m.Globals)}
	for _, opt := range opts {
		opt(r)
	}
	layers, err := r.expand(m.Stack, m.Globals.solventRef(), map[string]bool{})
	if err != nil {
		return nil, err
	}
	if r.substrateFirst {
		for i, j := 0, len(layers)-1; i < j; i, j = i+1, j-1 {
			layers[i], layers[j] = layers[j], layers[i]
		}
	}
	return layers, nil
}

// parameters are the concrete model-wide defaults after merging globals
// over the built-in values.
type parameters struct {
	roughness       float64
	lengthUnit      string
	sliceResolution float64
	solvent         any
}

type resolver struct {
	model          *SampleModel
	params         parameters
	lookup         MaterialResolver
	convert        quantity.Converter
	substrateFirst bool
}

func effectiveParams(g *ModelParameters) parameters {
	p := parameters{
		roughness:       0.3,
		lengthUnit:      "nm",
		sliceResolution: 1.0,
	}
	if g == nil {
		return p
	}
	if g.LengthUnit != "" {
		p.lengthUnit = g.LengthUnit
	}
	if g.Roughness != nil {
		p.roughness = magnitudeOf(g.Roughness)
	}
	if g.SliceResolution != nil {
		p.sliceResolution = magnitudeOf(g.SliceResolution)
	}
	p.solvent = g.DefaultSolvent
	return p
}

func (g *ModelParameters) solventRef() any {
	if g == nil {
		return nil
	}
	return g.DefaultSolvent
}

func magnitudeOf(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case quantity.Value:
		return t.Magnitude
	}
	return 0
}

// length reads a thickness-like union field, converting into the model's
// length unit when a converter is available and the value carries a unit.
func (r *resolver) length(v any, def float64) (float64, error) {
	val, ok := v.(quantity.Value)
	if !ok {
		if v == nil {
			return def, nil
		}
		return magnitudeOf(v), nil
	}
	if r.convert != nil && val.Unit != "" && val.Unit != r.params.lengthUnit {
		conv, err := val.ConvertTo(r.params.lengthUnit, r.convert)
		if err != nil {
			return 0, err
		}
		return conv.Magnitude, nil
	}
	return val.Magnitude, nil
}

// expand resolves one stack expression. env is the enclosing environment
// material reference (name, Material or Composit); visited carries the
// sub-stack names on the current expansion path for cycle detection.
func (r *resolver) expand(expr string, env any, visited map[string]bool) ([]ResolvedLayer, error) {
	items, err := parseStack(expr)
	if err != nil {
		return nil, err
	}
	var out []ResolvedLayer
	for _, item := range items {
		if item.group != "" {
			groupEnv := env
			if item.environment != "" {
				groupEnv = item.environment
			}
			base, err := r.expand(item.group, groupEnv, visited)
			if err != nil {
				return nil, err
			}
			for i := 0; i < item.repetitions; i++ {
				out = append(out, base...)
			}
			continue
		}
		layers, err := r.resolveToken(item, env, visited)
		if err != nil {
			return nil, err
		}
		out = append(out, layers...)
	}
	return out, nil
}

// resolveToken resolves a single named token: first as a layer, then as a
// sub-stack, then as a bare material (an implicit zero-thickness layer).
func (r *resolver) resolveToken(item stackItem, env any, visited map[string]bool) ([]ResolvedLayer, error) {
	name := item.name
	if l, ok := r.model.Layers[name]; ok {
		rl, err := r.layerOf(l, name, item.thickness, env)
		if err != nil {
			return nil, err
		}
		return []ResolvedLayer{rl}, nil
	}
	if def, ok := r.model.SubStacks[name]; ok {
		if visited[name] {
			return nil, cyclic(name)
		}
		visited[name] = true
		layers, err := r.resolveSubStack(def, name, env, visited)
		delete(visited, name)
		return layers, err
	}

	// Bare material reference: an implicit layer, zero thickness unless the
	// token carried one.
	sld, err := r.sldOfName(name, map[string]bool{})
	if err != nil {
		return nil, err
	}
	th := 0.0
	if item.thickness != nil {
		th = *item.thickness
	}
	return []ResolvedLayer{{Name: name, Thickness: th, Roughness: r.params.roughness, SLD: sld}}, nil
}

func (r *resolver) resolveSubStack(def any, name string, env any, visited map[string]bool) ([]ResolvedLayer, error) {
	switch d := def.(type) {
	case SubStack:
		if d.Stack != "" && d.Sequence != nil {
			return nil, invalidDef(name, "stack and sequence are mutually exclusive")
		}
		subEnv := env
		if d.Environment != nil {
			subEnv = d.Environment
		}
		var base []ResolvedLayer
		switch {
		case d.Sequence != nil:
			for _, l := range d.Sequence {
				rl, err := r.layerOf(l, name, nil, subEnv)
				if err != nil {
					return nil, err
				}
				base = append(base, rl)
			}
		case d.Stack != "":
			var err error
			base, err = r.expand(d.Stack, subEnv, visited)
			if err != nil {
				return nil, err
			}
		default:
			return nil, invalidDef(name, "sub-stack defines neither stack nor sequence")
		}
		out := make([]ResolvedLayer, 0, len(base)*d.Repetitions)
		for i := 0; i < d.Repetitions; i++ {
			out = append(out, base...)
		}
		return out, nil

	case ItemChanger:
		return r.resolveItemChanger(d, name, env, visited)

	case FunctionTwoElements:
		return r.functionLayers(d, name)

	case Layer:
		rl, err := r.layerOf(d, name, nil, env)
		if err != nil {
			return nil, err
		}
		return []ResolvedLayer{rl}, nil
	}
	return nil, invalidDef(name, "unsupported sub-stack definition")
}

// resolveItemChanger clones the referenced definition through the encoding
// engine, patches the overrides in and resolves the result as whatever kind
// of definition it was.
func (r *resolver) resolveItemChanger(ic ItemChanger, name string, env any, visited map[string]bool) ([]ResolvedLayer, error) {
	var target any
	switch {
	case r.model.SubStacks[ic.Like] != nil:
		target = r.model.SubStacks[ic.Like]
	default:
		if l, ok := r.model.Layers[ic.Like]; ok {
			target = l
		} else if m, ok := r.model.Materials[ic.Like]; ok {
			target = m
		} else if c, ok := r.model.Composits[ic.Like]; ok {
			target = c
		} else {
			return nil, unknownLike(ic.Like)
		}
	}
	if visited[ic.Like] {
		return nil, cyclic(ic.Like)
	}

	patched, err := clonePatch(target, ic.But)
	if err != nil {
		return nil, invalidDef(name, err.Error())
	}

	switch p := patched.(type) {
	case Material:
		sld, err := r.materialSLD(p, ic.Like, map[string]bool{})
		if err != nil {
			return nil, err
		}
		return []ResolvedLayer{{Name: name, Roughness: r.params.roughness, SLD: sld}}, nil
	case Composit:
		sld, err := r.compositSLD(p, map[string]bool{})
		if err != nil {
			return nil, err
		}
		return []ResolvedLayer{{Name: name, Roughness: r.params.roughness, SLD: sld}}, nil
	default:
		visited[ic.Like] = true
		layers, err := r.resolveSubStack(patched, name, env, visited)
		delete(visited, ic.Like)
		return layers, err
	}
}

// clonePatch deep-copies a definition by round-tripping it through the
// construction engine, applying each override key (dotted paths reach into
// nested mappings) before rebuilding.
func clonePatch(def any, but map[string]any) (any, error) {
	enc, err := schema.Encode(def)
	if err != nil {
		return nil, err
	}
	for key, val := range but {
		setPath(enc, strings.Split(key, "."), val)
	}
	return schema.BuildAs(reflect.TypeOf(def), enc)
}

func setPath(m map[string]any, parts []string, val any) {
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = val
}

func (r *resolver) layerOf(l Layer, name string, thickness *float64, env any) (ResolvedLayer, error) {
	th, err := r.length(l.Thickness, 0)
	if err != nil {
		return ResolvedLayer{}, err
	}
	if thickness != nil {
		th = *thickness
	}
	rough, err := r.length(l.Roughness, r.params.roughness)
	if err != nil {
		return ResolvedLayer{}, err
	}

	var sld complex128
	switch {
	case l.Material != nil:
		sld, err = r.sldOfRef(l.Material, map[string]bool{})
	case l.Composition != nil:
		sld, err = r.compositionSLD(l.Composition, env, map[string]bool{})
	default:
		// A layer defined without material falls back to its own name.
		sld, err = r.sldOfName(name, map[string]bool{})
	}
	if err != nil {
		return ResolvedLayer{}, err
	}
	return ResolvedLayer{Name: name, Thickness: th, Roughness: rough, SLD: sld}, nil
}

// sldOfRef resolves a material reference that may be an inline Material or
// Composit or the name of one.
func (r *resolver) sldOfRef(ref any, seen map[string]bool) (complex128, error) {
	switch v := ref.(type) {
	case string:
		return r.sldOfName(v, seen)
	case Material:
		return r.materialSLD(v, "", seen)
	case Composit:
		return r.compositSLD(v, seen)
	}
	return 0, invalidDef("material", "unsupported material reference")
}

// Built-in materials usable without a definition. Both resolve to zero SLD;
// anything with real density information needs a definition or an injected
// MaterialResolver.
var specialSLDs = map[string]complex128{
	"vacuum": 0,
	"air":    0,
}

func (r *resolver) sldOfName(name string, seen map[string]bool) (complex128, error) {
	if seen[name] {
		return 0, cyclic(name)
	}
	seen[name] = true
	defer delete(seen, name)

	if m, ok := r.model.Materials[name]; ok {
		return r.materialSLD(m, name, seen)
	}
	if c, ok := r.model.Composits[name]; ok {
		return r.compositSLD(c, seen)
	}
	if sld, ok := specialSLDs[name]; ok {
		return sld, nil
	}
	if r.lookup != nil {
		return r.lookup.SLDFromFormula(name)
	}
	return 0, unknownRef(name)
}

func (r *resolver) materialSLD(m Material, name string, seen map[string]bool) (complex128, error) {
	var sld complex128
	switch s := m.SLD.(type) {
	case nil:
		formula := m.Formula
		if formula == "" {
			formula = name
		}
		if formula == "" || r.lookup == nil {
			return 0, invalidDef(name, "material defines no sld and no formula lookup is available")
		}
		looked, err := r.lookup.SLDFromFormula(formula)
		if err != nil {
			return 0, err
		}
		sld = looked
	case float64:
		sld = complex(s, 0)
	case quantity.Value:
		sld = complex(s.Magnitude, 0)
	case quantity.ComplexValue:
		sld = s.Complex()
	default:
		return 0, invalidDef(name, "unsupported sld value")
	}
	if m.RelativeDensity != nil {
		sld *= complex(*m.RelativeDensity, 0)
	}
	return sld, nil
}

// compositSLD is the fraction-weighted sum of the constituents' SLDs,
// normalized when the fractions do not sum to one.
func (r *resolver) compositSLD(c Composit, seen map[string]bool) (complex128, error) {
	total := 0.0
	for _, f := range c.Composition {
		total += f
	}
	if total == 0 {
		return 0, invalidDef("composit", "composition fractions sum to zero")
	}
	var sld complex128
	for mat, f := range c.Composition {
		part, err := r.sldOfName(mat, seen)
		if err != nil {
			return 0, err
		}
		sld += complex(f/total, 0) * part
	}
	return sld, nil
}

// compositionSLD mixes a layer's composition. Fractions above one are
// normalized; a shortfall is filled with the environment material (the
// enclosing sub-stack's environment or the model's default solvent), and
// with vacuum when neither is set.
func (r *resolver) compositionSLD(comp map[string]float64, env any, seen map[string]bool) (complex128, error) {
	total := 0.0
	for _, f := range comp {
		total += f
	}
	norm := 1.0
	if total > 1 {
		norm = 1 / total
	}
	var sld complex128
	for mat, f := range comp {
		part, err := r.sldOfName(mat, seen)
		if err != nil {
			return 0, err
		}
		sld += complex(f*norm, 0) * part
	}
	if total < 1 {
		fill := env
		if fill == nil {
			fill = r.params.solvent
		}
		if fill != nil {
			part, err := r.sldOfRef(fill, seen)
			if err != nil {
				return 0, err
			}
			sld += complex(1-total, 0) * part
		}
	}
	return sld, nil
}

// weightFuncs are the named interpolation profiles for FunctionTwoElements.
// Each maps the slice position in [0, 1] to the fraction of material2.
var weightFuncs = map[string]func(float64) float64{
	"linear":     func(x float64) float64 { return x },
	"sqrt":       math.Sqrt,
	"smoothstep": func(x float64) float64 { return x * x * (3 - 2*x) },
}

func (r *resolver) functionLayers(d FunctionTwoElements, name string) ([]ResolvedLayer, error) {
	fn, ok := weightFuncs[d.Function]
	if !ok {
		return nil, invalidDef(name, "unknown interpolation function "+d.Function)
	}
	th, err := r.length(d.Thickness, 0)
	if err != nil {
		return nil, err
	}
	res, err := r.length(d.SliceResolution, r.params.sliceResolution)
	if err != nil {
		return nil, err
	}

	n := 1
	if res > 0 {
		if k := int(math.Round(th / res)); k > 1 {
			n = k
		}
	}
	sld1, err := r.sldOfName(d.Material1, map[string]bool{})
	if err != nil {
		return nil, err
	}
	sld2, err := r.sldOfName(d.Material2, map[string]bool{})
	if err != nil {
		return nil, err
	}
	firstRough, err := r.length(d.Roughness, r.params.roughness)
	if err != nil {
		return nil, err
	}

	di := th / float64(n)
	out := make([]ResolvedLayer, 0, n)
	for i := 0; i < n; i++ {
		frac := 0.5
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		w := fn(frac)
		if w < 0 {
			w = 0
		} else if w > 1 {
			w = 1
		}
		rough := di / 2
		if i == 0 {
			rough = firstRough
		}
		out = append(out, ResolvedLayer{
			Name:      name,
			Thickness: di,
			Roughness: rough,
			SLD:       complex(1-w, 0)*sld1 + complex(w, 0)*sld2,
		})
	}
	return out, nil
}
