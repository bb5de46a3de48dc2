package schema

import (
	"fmt"
	"reflect"
	"time"
)

// Encode turns a typed record back into a nested mapping, emitting only
// fields whose value differs from the declared default. Together with Build
// it satisfies the round-trip law: Build(T, Encode(v)) == v for any v
// obtainable via Build.
func Encode(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("schema: encode nil")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: encode non-struct %T", v)
	}
	return encodeStruct(rv)
}

func encodeStruct(rv reflect.Value) (map[string]any, error) {
	ti, err := Describe(rv.Type())
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(ti.Fields))
	for i := range ti.Fields {
		fi := &ti.Fields[i]
		fv := rv.Field(fi.index)
		if omitField(fi, fv) {
			continue
		}
		ev, err := encodeValue(fv)
		if err != nil {
			return nil, err
		}
		out[fi.Name] = ev
	}

	if ti.extraIndex >= 0 {
		extra := rv.Field(ti.extraIndex).Interface().(UserData).Extra
		for k, v := range extra {
			out[k] = v
		}
	}
	return out, nil
}

// omitField reports whether the field holds its declared default and should
// be left out of the encoded mapping. Required fields are always emitted.
func omitField(fi *FieldInfo, fv reflect.Value) bool {
	if fi.HasDefault {
		return reflect.DeepEqual(fv.Interface(), fi.defaultValue)
	}
	if fi.Required {
		return false
	}
	return isEmpty(fv)
}

func isEmpty(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.Interface, reflect.Pointer:
		return fv.IsNil()
	case reflect.Map, reflect.Slice:
		return fv.Len() == 0
	case reflect.String:
		return fv.Len() == 0
	case reflect.Bool:
		return !fv.Bool()
	case reflect.Float32, reflect.Float64:
		return fv.Float() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int() == 0
	case reflect.Struct:
		if fv.Type() == timeType {
			return fv.Interface().(time.Time).IsZero()
		}
		return fv.IsZero()
	}
	return false
}

func encodeValue(fv reflect.Value) (any, error) {
	switch fv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if fv.IsNil() {
			return nil, nil
		}
		return encodeValue(fv.Elem())

	case reflect.Struct:
		if fv.Type() == timeType {
			return fv.Interface(), nil
		}
		return encodeStruct(fv)

	case reflect.Slice:
		out := make([]any, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			ev, err := encodeValue(fv.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil

	case reflect.Map:
		out := make(map[string]any, fv.Len())
		iter := fv.MapRange()
		for iter.Next() {
			ev, err := encodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(iter.Key().Interface())] = ev
		}
		return out, nil

	case reflect.String:
		// Typed strings (enums) come back as plain strings so the result
		// feeds straight back into Build.
		return fv.String(), nil

	case reflect.Float32, reflect.Float64:
		return fv.Float(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(fv.Int()), nil

	case reflect.Bool:
		return fv.Bool(), nil
	}
	return nil, fmt.Errorf("schema: cannot encode %s", fv.Type())
}
