package interchange

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the field-naming tag with sentinel
	sentinel.Tag("serialize")
}

// maxConvertDepth bounds reflection walks so cyclic pointer graphs fail
// instead of overflowing the stack.
const maxConvertDepth = 512

// FromAny converts a Go value to a Value.
//
// Maps with non-ordered key sets (Go maps) are emitted with sorted keys.
// Structs use the `serialize` tag, then the `json` tag, then the field name;
// a tag of "-" skips the field and ",omitempty" drops zero values.
// Types implementing ValueMarshaler bypass reflection.
func FromAny(x any) (Value, error) {
	return fromAny(x, 0)
}

// FromStruct converts a struct using cached sentinel metadata for T.
// Non-struct types fall back to FromAny.
func FromStruct[T any](v T) (Value, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return FromAny(v)
	}
	if m, ok := any(v).(ValueMarshaler); ok {
		return m.MarshalValue()
	}

	spec := sentinel.Scan[T]()
	indexes := make([][]int, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		indexes = append(indexes, f.Index)
	}
	plans := buildFieldPlans(rt, indexes)
	fieldCache.Store(rt, plans)

	return fromStruct(reflect.ValueOf(v), plans, 0)
}

func fromAny(x any, depth int) (Value, error) {
	if depth > maxConvertDepth {
		return Value{}, fmt.Errorf("%w: nesting deeper than %d", ErrUnsupportedType, maxConvertDepth)
	}

	switch t := x.(type) {
	case nil:
		return Null(), nil
	case ValueMarshaler:
		return t.MarshalValue()
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number:
		return fromNumber(string(t))
	case []byte:
		return String(string(t)), nil
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := fromAny(item, depth+1)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Sequence(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			v, err := fromAny(t[k], depth+1)
			if err != nil {
				return Value{}, err
			}
			m.Set(k, v)
		}
		return Map(m), nil
	}

	return fromReflect(reflect.ValueOf(x), depth)
}

func fromReflect(rv reflect.Value, depth int) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromAny(rv.Elem().Interface(), depth+1)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		fallthrough
	case reflect.Array:
		items := make([]Value, rv.Len())
		for i := range rv.Len() {
			v, err := fromAny(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Sequence(items...), nil
	case reflect.Map:
		if rv.IsNil() {
			return Null(), nil
		}
		type entry struct {
			key string
			val reflect.Value
		}
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, entry{key: fmt.Sprint(iter.Key().Interface()), val: iter.Value()})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		m := NewMapping()
		for _, e := range entries {
			v, err := fromAny(e.val.Interface(), depth+1)
			if err != nil {
				return Value{}, err
			}
			m.Set(e.key, v)
		}
		return Map(m), nil
	case reflect.Struct:
		return fromStruct(rv, structFields(rv.Type()), depth)
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func fromNumber(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}

// fieldPlan describes how to read a single struct field.
type fieldPlan struct {
	index     []int  // reflect.Value.FieldByIndex access path
	name      string // output key
	omitEmpty bool   // drop zero values
	inline    bool   // embedded struct merged into the parent
}

var fieldCache sync.Map // reflect.Type -> []fieldPlan

// structFields returns field plans for rt, preferring sentinel metadata when
// the type was scanned before.
func structFields(rt reflect.Type) []fieldPlan {
	if cached, ok := fieldCache.Load(rt); ok {
		return cached.([]fieldPlan)
	}

	var indexes [][]int
	if spec, ok := sentinel.Lookup(rt.String()); ok && len(spec.Fields) > 0 {
		for _, f := range spec.Fields {
			indexes = append(indexes, f.Index)
		}
	} else {
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if sf.IsExported() || sf.Anonymous {
				indexes = append(indexes, sf.Index)
			}
		}
	}

	plans := buildFieldPlans(rt, indexes)
	fieldCache.Store(rt, plans)
	return plans
}

func buildFieldPlans(rt reflect.Type, indexes [][]int) []fieldPlan {
	plans := make([]fieldPlan, 0, len(indexes))
	for _, idx := range indexes {
		sf := rt.FieldByIndex(idx)
		tag, hasTag := sf.Tag.Lookup("serialize")
		if !hasTag {
			tag, hasTag = sf.Tag.Lookup("json")
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" && opts == "" {
			continue
		}

		plan := fieldPlan{
			index:     idx,
			name:      name,
			omitEmpty: strings.Contains(opts, "omitempty"),
		}
		if plan.name == "" {
			if sf.Anonymous && !hasTag && indirectKind(sf.Type) == reflect.Struct {
				plan.inline = true
			} else if !sf.IsExported() {
				continue
			}
			plan.name = sf.Name
		}
		plans = append(plans, plan)
	}
	return plans
}

func indirectKind(rt reflect.Type) reflect.Kind {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Kind()
}

func fromStruct(rv reflect.Value, plans []fieldPlan, depth int) (Value, error) {
	m := NewMapping()
	if err := fillStruct(m, rv, plans, depth); err != nil {
		return Value{}, err
	}
	return Map(m), nil
}

func fillStruct(m *Mapping, rv reflect.Value, plans []fieldPlan, depth int) error {
	for _, plan := range plans {
		fv := rv.FieldByIndex(plan.index)
		if plan.omitEmpty && fv.IsZero() {
			continue
		}
		if plan.inline {
			for fv.Kind() == reflect.Pointer && !fv.IsNil() {
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Pointer {
				continue
			}
			if fv.Kind() == reflect.Struct {
				if err := fillStruct(m, fv, structFields(fv.Type()), depth+1); err != nil {
					return err
				}
				continue
			}
		}
		if !fv.CanInterface() {
			continue
		}
		v, err := fromAny(fv.Interface(), depth+1)
		if err != nil {
			return fmt.Errorf("field %s: %w", plan.name, err)
		}
		m.Set(plan.name, v)
	}
	return nil
}

// ToAny converts v to plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any. Mapping order is lost.
func ToAny(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = ToAny(item)
		}
		return out
	case KindMapping:
		out := make(map[string]any, v.m.Len())
		for k, item := range v.m.All() {
			out[k] = ToAny(item)
		}
		return out
	default:
		return nil
	}
}
