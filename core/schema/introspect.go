package schema

import "reflect"

// TypeSchema describes one record type for external schema-document
// generators. It is a plain-data view of the compiled descriptor table.
type TypeSchema struct {
	Name   string        `json:"name" yaml:"name"`
	Fields []FieldSchema `json:"fields" yaml:"fields"`
}

// FieldSchema describes a single declared field.
type FieldSchema struct {
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type" yaml:"type"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Default  any      `json:"default,omitempty" yaml:"default,omitempty"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	OneOf    []string `json:"one_of,omitempty" yaml:"one_of,omitempty"`
	Values   []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Introspect exposes the field metadata of a record type. Schema export
// itself lives outside the core; this is the interface it consumes.
func Introspect[T any]() (TypeSchema, error) {
	var zero T
	return IntrospectType(reflect.TypeOf(zero))
}

// IntrospectType is the reflective form of Introspect.
func IntrospectType(t reflect.Type) (TypeSchema, error) {
	ti, err := Describe(t)
	if err != nil {
		return TypeSchema{}, err
	}
	out := TypeSchema{Name: ti.Name, Fields: make([]FieldSchema, 0, len(ti.Fields))}
	for i := range ti.Fields {
		fi := &ti.Fields[i]
		fs := FieldSchema{
			Name:     fi.Name,
			Type:     typeDescriptor(fi),
			Required: fi.Required,
			Aliases:  fi.Aliases,
			OneOf:    fi.OneOf,
		}
		if fi.HasDefault {
			fs.Default = fi.defaultValue
		}
		ft := fi.typ
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.String && ft.Implements(enumType) {
			fs.Values = reflect.New(ft).Elem().Interface().(Enum).EnumValues()
		}
		out.Fields = append(out.Fields, fs)
	}
	return out, nil
}

func typeDescriptor(fi *FieldInfo) string {
	if len(fi.OneOf) > 0 {
		return "union"
	}
	t := fi.typ
	optional := ""
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		optional = "?"
	}
	switch {
	case t == timeType:
		return "datetime" + optional
	case t.Kind() == reflect.Struct:
		return t.Name() + optional
	case t.Kind() == reflect.Slice:
		return "[]" + t.Elem().Name()
	case t.Kind() == reflect.Map:
		return "map[string]" + t.Elem().Name()
	case t.Kind() == reflect.Interface:
		return "any"
	default:
		return t.Kind().String() + optional
	}
}
