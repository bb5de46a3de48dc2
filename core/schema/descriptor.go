package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Enum is implemented by closed string enums. Build rejects values outside
// EnumValues with KindInvalidEnumValue.
type Enum interface {
	EnumValues() []string
}

// UserData is embedded in every record type and captures input keys that are
// not part of the declared schema. The keys are preserved through Encode so
// that files written against newer schema revisions survive a round trip.
type UserData struct {
	Extra map[string]any
}

// FieldInfo is the compiled descriptor of one declared field.
type FieldInfo struct {
	// Name is the current wire key.
	Name string

	// Aliases are legacy wire keys accepted on input, never emitted.
	Aliases []string

	// Required marks keys that must be present (a null value still counts
	// as absent).
	Required bool

	// OneOf lists union candidate type names in declared order. Builtin
	// candidates are "float", "int", "string" and "bool"; everything else
	// must be registered with Register.
	OneOf []string

	// DefaultRaw is the unparsed default literal from the tag.
	DefaultRaw string
	HasDefault bool

	// defaultValue is DefaultRaw built through the regular field path,
	// used both for assignment and the encode-time omission test.
	defaultValue any

	index int
	typ   reflect.Type
}

// Type returns the declared Go type of the field.
func (f *FieldInfo) Type() reflect.Type { return f.typ }

// TypeInfo is the compiled descriptor table of one record type. It is built
// once, cached process-wide and never mutated afterwards.
type TypeInfo struct {
	Type   reflect.Type
	Name   string
	Fields []FieldInfo

	extraIndex int
	byKey      map[string]*FieldInfo

	defOnce sync.Once
	defErr  error
}

var (
	descMu sync.Mutex
	descs  = map[reflect.Type]*TypeInfo{}

	namedMu sync.RWMutex
	named   = map[string]reflect.Type{}
)

var (
	enumType     = reflect.TypeOf((*Enum)(nil)).Elem()
	userDataType = reflect.TypeOf(UserData{})
)

// Register makes T available as a union candidate under the given name.
// Names are global; registering two types under one name panics.
func Register[T any](name string) {
	var zero T
	t := reflect.TypeOf(zero)
	namedMu.Lock()
	defer namedMu.Unlock()
	if prev, ok := named[name]; ok && prev != t {
		panic(fmt.Sprintf("schema: %q already registered as %s", name, prev))
	}
	named[name] = t
}

func lookupNamed(name string) (reflect.Type, bool) {
	namedMu.RLock()
	defer namedMu.RUnlock()
	t, ok := named[name]
	return t, ok
}

// Describe returns the descriptor table for a record type, compiling it on
// first use.
func Describe(t reflect.Type) (*TypeInfo, error) {
	descMu.Lock()
	ti, err := describeLocked(t)
	descMu.Unlock()
	if err != nil {
		return nil, err
	}
	// Defaults are built outside the lock: a union default may need the
	// descriptor of one of its candidate types.
	ti.defOnce.Do(func() { ti.defErr = ti.initDefaults() })
	if ti.defErr != nil {
		return nil, ti.defErr
	}
	return ti, nil
}

func (ti *TypeInfo) initDefaults() error {
	for i := range ti.Fields {
		fi := &ti.Fields[i]
		if !fi.HasDefault {
			continue
		}
		// Built through the regular field path so that union and enum
		// defaults land as their proper variant.
		raw := defaultLiteral(fi)
		v, err := buildField(fi, raw, ti.Name, fi.Name)
		if err != nil {
			return fmt.Errorf("schema: %s.%s: bad default %q: %w", ti.Name, fi.Name, fi.DefaultRaw, err)
		}
		fi.defaultValue = v.Interface()
	}
	return nil
}

func describeLocked(t reflect.Type) (*TypeInfo, error) {
	if ti, ok := descs[t]; ok {
		return ti, nil
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s is not a struct", t)
	}

	ti := &TypeInfo{
		Type:       t,
		Name:       t.Name(),
		extraIndex: -1,
		byKey:      map[string]*FieldInfo{},
	}
	descs[t] = ti

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type == userDataType {
			ti.extraIndex = i
			continue
		}
		if sf.PkgPath != "" {
			continue // unexported
		}
		tag := sf.Tag.Get("orso")
		if tag == "-" {
			continue
		}
		fi, err := parseFieldTag(sf, i, tag)
		if err != nil {
			delete(descs, t)
			return nil, fmt.Errorf("schema: %s.%s: %w", t.Name(), sf.Name, err)
		}
		ti.Fields = append(ti.Fields, fi)
	}

	for i := range ti.Fields {
		fi := &ti.Fields[i]
		if _, dup := ti.byKey[fi.Name]; dup {
			delete(descs, t)
			return nil, fmt.Errorf("schema: %s: duplicate key %q", t.Name(), fi.Name)
		}
		ti.byKey[fi.Name] = fi
		for _, a := range fi.Aliases {
			if _, dup := ti.byKey[a]; dup {
				delete(descs, t)
				return nil, fmt.Errorf("schema: %s: duplicate key %q", t.Name(), a)
			}
			ti.byKey[a] = fi
		}
	}

	return ti, nil
}

func parseFieldTag(sf reflect.StructField, index int, tag string) (FieldInfo, error) {
	fi := FieldInfo{index: index, typ: sf.Type}
	parts := strings.Split(tag, ",")
	if len(parts) == 0 || parts[0] == "" {
		return fi, fmt.Errorf("missing orso tag name")
	}
	fi.Name = parts[0]
	for _, p := range parts[1:] {
		switch {
		case p == "required":
			fi.Required = true
		case strings.HasPrefix(p, "alias="):
			fi.Aliases = strings.Split(strings.TrimPrefix(p, "alias="), ";")
		case strings.HasPrefix(p, "oneof="):
			fi.OneOf = strings.Split(strings.TrimPrefix(p, "oneof="), "|")
		case strings.HasPrefix(p, "default="):
			fi.DefaultRaw = strings.TrimPrefix(p, "default=")
			fi.HasDefault = true
		default:
			return fi, fmt.Errorf("unknown tag option %q", p)
		}
	}
	return fi, nil
}

// defaultLiteral converts the tag literal into the raw value buildField
// expects: numbers for numeric fields, the bare string otherwise.
func defaultLiteral(fi *FieldInfo) any {
	t := fi.typ
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int
		if _, err := fmt.Sscanf(fi.DefaultRaw, "%d", &n); err == nil {
			return n
		}
	case reflect.Float32, reflect.Float64:
		var f float64
		if _, err := fmt.Sscanf(fi.DefaultRaw, "%g", &f); err == nil {
			return f
		}
	case reflect.Bool:
		return fi.DefaultRaw == "true"
	}
	return fi.DefaultRaw
}

// requiredKeys returns the wire keys that must be present for this record to
// accept a mapping. Used by union shape matching.
func (ti *TypeInfo) requiredKeys() []string {
	var out []string
	for i := range ti.Fields {
		if ti.Fields[i].Required {
			out = append(out, ti.Fields[i].Name)
		}
	}
	return out
}

// acceptsKey reports whether the key is a declared name or alias.
func (ti *TypeInfo) acceptsKey(k string) bool {
	_, ok := ti.byKey[k]
	return ok
}
