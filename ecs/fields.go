package ecs

import (
	"reflect"
	"unsafe"
)

// eface is the memory layout of an interface value.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// dataPointer returns the pointer held by an interface wrapping a pointer.
func dataPointer(v any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&v)).data
}

// fields maps a query struct onto component types. Every field must be a
// pointer to a component. Embedded fields are required; named fields may
// be tagged `ecs:"optional"` and are nil when the entity lacks them.
type fields struct {
	types    []reflect.Type
	optional []bool
	offsets  []uintptr
}

func fieldsOf[T any]() fields {
	st := reflect.TypeFor[T]()
	if st.Kind() != reflect.Struct {
		panic("query type parameter must be a struct")
	}

	f := fields{
		types:    make([]reflect.Type, 0, st.NumField()),
		optional: make([]bool, 0, st.NumField()),
		offsets:  make([]uintptr, 0, st.NumField()),
	}
	for i := range st.NumField() {
		field := st.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("query struct fields must be pointer types")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		f.types = append(f.types, field.Type.Elem())
		f.optional = append(f.optional, optional)
		f.offsets = append(f.offsets, field.Offset)
	}
	return f
}

// columns returns, per field, the index of the archetype storage holding
// it or -1. ok is false when a required component is missing.
func (f *fields) columns(a *Archetype) (cols []int, ok bool) {
	cols = make([]int, len(f.types))
	for i, t := range f.types {
		cols[i] = a.column(t)
		if cols[i] < 0 && !f.optional[i] {
			return nil, false
		}
	}
	return cols, true
}

// fill points the fields of dst at the components stored in slot index.
// It fails when a required component has no live value in that slot.
func (f *fields) fill(dst unsafe.Pointer, a *Archetype, cols []int, index int) bool {
	for i, col := range cols {
		slot := (*unsafe.Pointer)(unsafe.Add(dst, f.offsets[i]))

		var component any
		if col >= 0 {
			component = a.storages[col].Get(index)
		}
		if component == nil {
			if !f.optional[i] {
				return false
			}
			*slot = nil
			continue
		}
		*slot = dataPointer(component)
	}
	return true
}
