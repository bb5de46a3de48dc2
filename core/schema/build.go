package schema

import (
	"fmt"
	"reflect"
	"time"
)

// Build constructs a typed record from an untyped nested mapping, as decoded
// by yaml.v3. It fails fast with a *Error on the first violation.
func Build[T any](raw map[string]any) (*T, error) {
	var zero T
	t := reflect.TypeOf(zero)
	v, err := buildStruct(t, raw, "")
	if err != nil {
		return nil, err
	}
	out := v.Interface().(T)
	return &out, nil
}

// BuildAs is the reflective form of Build, used where the concrete type is
// only known at runtime (for example when re-materializing a cloned
// definition).
func BuildAs(t reflect.Type, raw map[string]any) (any, error) {
	v, err := buildStruct(t, raw, "")
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

var timeType = reflect.TypeOf(time.Time{})

func buildStruct(t reflect.Type, raw map[string]any, path string) (reflect.Value, error) {
	ti, err := Describe(t)
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.New(t).Elem()
	consumed := map[string]bool{}

	for i := range ti.Fields {
		fi := &ti.Fields[i]
		rawVal, key, err := lookupKey(ti, fi, raw, path)
		if err != nil {
			return reflect.Value{}, err
		}
		if key != "" {
			consumed[key] = true
		}
		fieldPath := joinPath(path, fi.Name)

		if rawVal == nil {
			// Absent, or present as an explicit null. Either way the
			// declared default applies.
			switch {
			case fi.HasDefault:
				out.Field(fi.index).Set(reflect.ValueOf(fi.defaultValue))
			case fi.Required:
				return reflect.Value{}, &Error{Kind: KindMissingRequiredField, Record: ti.Name, Path: fieldPath}
			}
			continue
		}

		v, err := buildField(fi, rawVal, ti.Name, fieldPath)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Field(fi.index).Set(v)
	}

	if ti.extraIndex >= 0 {
		var extra map[string]any
		for k, v := range raw {
			if consumed[k] || ti.acceptsKey(k) {
				continue
			}
			if extra == nil {
				extra = map[string]any{}
			}
			extra[k] = normalize(v)
		}
		if extra != nil {
			out.Field(ti.extraIndex).Set(reflect.ValueOf(UserData{Extra: extra}))
		}
	}

	return out, nil
}

// lookupKey finds the raw value for a field under its current name or one of
// its aliases, failing when both are present and disagree.
func lookupKey(ti *TypeInfo, fi *FieldInfo, raw map[string]any, path string) (any, string, error) {
	val, found := raw[fi.Name]
	foundKey := ""
	if found {
		foundKey = fi.Name
	}
	for _, a := range fi.Aliases {
		av, ok := raw[a]
		if !ok {
			continue
		}
		if found && !reflect.DeepEqual(val, av) {
			return nil, "", &Error{
				Kind:   KindConflictingAlias,
				Record: ti.Name,
				Path:   joinPath(path, fi.Name),
				Value:  av,
				Detail: fmt.Sprintf("%q and %q", foundKey, a),
			}
		}
		if !found {
			val, found, foundKey = av, true, a
		}
	}
	return val, foundKey, nil
}

func buildField(fi *FieldInfo, raw any, record, path string) (reflect.Value, error) {
	raw = normalize(raw)
	if len(fi.OneOf) > 0 {
		return buildUnionField(fi, raw, record, path)
	}
	return buildValue(fi.typ, raw, record, path)
}

// buildUnionField handles oneof fields. The field itself is declared as
// `any`; when it is a slice or a string-keyed map, the union applies to the
// elements instead.
func buildUnionField(fi *FieldInfo, raw any, record, path string) (reflect.Value, error) {
	switch fi.typ.Kind() {
	case reflect.Slice:
		items, ok := raw.([]any)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a sequence"}
		}
		out := reflect.MakeSlice(fi.typ, len(items), len(items))
		for i, item := range items {
			v, err := buildUnion(fi.OneOf, item, record, indexPath(path, i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(v)
		}
		return out, nil
	case reflect.Map:
		m, ok := raw.(map[string]any)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a mapping"}
		}
		out := reflect.MakeMapWithSize(fi.typ, len(m))
		for k, item := range m {
			v, err := buildUnion(fi.OneOf, item, record, joinPath(path, k))
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(reflect.ValueOf(k), v)
		}
		return out, nil
	default:
		return buildUnion(fi.OneOf, raw, record, path)
	}
}

// buildUnion resolves a value against an ordered candidate list. Among all
// candidates whose shape accepts the input, the one leaving the fewest
// optional fields unfilled wins; ties go to declared order.
func buildUnion(candidates []string, raw any, record, path string) (reflect.Value, error) {
	bestIdx := -1
	bestScore := 0
	for i, name := range candidates {
		score, ok := unionAccepts(name, raw)
		if !ok {
			continue
		}
		if bestIdx < 0 || score < bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return reflect.Value{}, &Error{
			Kind:    KindAmbiguousOrInvalidUnion,
			Record:  record,
			Path:    path,
			Value:   raw,
			Allowed: candidates,
		}
	}
	return buildCandidate(candidates[bestIdx], raw, record, path)
}

// unionAccepts is the total, side-effect-free shape test for one candidate.
// For record candidates the score counts optional fields the input leaves
// unfilled; scalar candidates score zero.
func unionAccepts(name string, raw any) (score int, ok bool) {
	switch name {
	case "float":
		_, ok = toFloat(raw)
		return 0, ok
	case "int":
		_, ok = toInt(raw)
		return 0, ok
	case "string":
		_, ok = raw.(string)
		return 0, ok
	case "bool":
		_, ok = raw.(bool)
		return 0, ok
	}

	t, found := lookupNamed(name)
	if !found {
		return 0, false
	}
	if t.Kind() == reflect.String {
		// Enum candidate.
		s, isStr := raw.(string)
		if !isStr {
			return 0, false
		}
		if e, isEnum := reflect.New(t).Elem().Interface().(Enum); isEnum {
			for _, v := range e.EnumValues() {
				if v == s {
					return 0, true
				}
			}
		}
		return 0, false
	}

	m, isMap := raw.(map[string]any)
	if !isMap {
		return 0, false
	}
	ti, err := Describe(t)
	if err != nil {
		return 0, false
	}
	for k := range m {
		if !ti.acceptsKey(k) {
			return 0, false
		}
	}
	for _, req := range ti.requiredKeys() {
		if _, present := m[req]; !present {
			return 0, false
		}
	}
	for i := range ti.Fields {
		fi := &ti.Fields[i]
		if fi.Required {
			continue
		}
		if _, present := m[fi.Name]; !present {
			score++
		}
	}
	return score, true
}

func buildCandidate(name string, raw any, record, path string) (reflect.Value, error) {
	switch name {
	case "float":
		f, _ := toFloat(raw)
		return reflect.ValueOf(f), nil
	case "int":
		n, _ := toInt(raw)
		return reflect.ValueOf(n), nil
	case "string", "bool":
		return reflect.ValueOf(raw), nil
	}
	t, _ := lookupNamed(name)
	if t.Kind() == reflect.String {
		return buildValue(t, raw, record, path)
	}
	return buildStruct(t, raw.(map[string]any), path)
}

func buildValue(t reflect.Type, raw any, record, path string) (reflect.Value, error) {
	raw = normalize(raw)

	switch {
	case t == timeType:
		return buildTime(raw, record, path)
	case t.Kind() == reflect.Pointer:
		v, err := buildValue(t.Elem(), raw, record, path)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(v)
		return p, nil
	case t.Implements(enumType) && t.Kind() == reflect.String:
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a string"}
		}
		allowed := reflect.New(t).Elem().Interface().(Enum).EnumValues()
		for _, v := range allowed {
			if v == s {
				return reflect.ValueOf(s).Convert(t), nil
			}
		}
		return reflect.Value{}, &Error{Kind: KindInvalidEnumValue, Record: record, Path: path, Value: s, Allowed: allowed}
	}

	switch t.Kind() {
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a string"}
		}
		return reflect.ValueOf(s).Convert(t), nil

	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a boolean"}
		}
		return reflect.ValueOf(b), nil

	case reflect.Float64, reflect.Float32:
		f, ok := toFloat(raw)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a number"}
		}
		return reflect.ValueOf(f).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt(raw)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected an integer"}
		}
		return reflect.ValueOf(n).Convert(t), nil

	case reflect.Struct:
		m, ok := raw.(map[string]any)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a mapping"}
		}
		return buildStruct(t, m, path)

	case reflect.Slice:
		items, ok := raw.([]any)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a sequence"}
		}
		out := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			v, err := buildValue(t.Elem(), item, record, indexPath(path, i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(v)
		}
		return out, nil

	case reflect.Map:
		m, ok := raw.(map[string]any)
		if !ok {
			return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected a mapping"}
		}
		out := reflect.MakeMapWithSize(t, len(m))
		for k, item := range m {
			v, err := buildValue(t.Elem(), item, record, joinPath(path, k))
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(reflect.ValueOf(k), v)
		}
		return out, nil

	case reflect.Interface:
		// Free-form field: keep the normalized raw value.
		if raw == nil {
			return reflect.Zero(t), nil
		}
		return reflect.ValueOf(raw), nil
	}

	return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: fmt.Sprintf("unsupported field type %s", t)}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func buildTime(raw any, record, path string) (reflect.Value, error) {
	switch v := raw.(type) {
	case time.Time:
		return reflect.ValueOf(v), nil
	case string:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				return reflect.ValueOf(ts), nil
			}
		}
	}
	return reflect.Value{}, &Error{Kind: KindInvalidValue, Record: record, Path: path, Value: raw, Detail: "expected an ISO 8601 datetime"}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// normalize rewrites yaml.v2-style map[any]any trees into the string-keyed
// form the engine works with.
func normalize(raw any) any {
	switch v := raw.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case map[string]any:
		for k, item := range v {
			v[k] = normalize(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	}
	return raw
}
