package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton is a system field giving direct access to a component that
// belongs to no entity, such as the overlay's input state or a frame
// clock. The scheduler initializes it on Register.
type Singleton[T any] struct {
	storage *Storage
	ptr     unsafe.Pointer
}

// NewSingleton returns an accessor for T, adding T to storage first when
// it is missing. The first initializer, if any, is the value added.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	s := &Singleton[T]{storage: storage}
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
	}
	s.refresh()
	return s
}

// Init binds the accessor to storage.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.refresh()
}

func (s *Singleton[T]) refresh() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.ptr = entry.dataPtr
	} else {
		s.ptr = nil
	}
}

// Get returns the singleton, or nil when it has not been added.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.refresh()
	}
	return (*T)(s.ptr)
}

// Set replaces the singleton's value, adding it when missing. Pointers
// returned by earlier Get calls see the new value.
func (s *Singleton[T]) Set(v T) {
	if p := s.Get(); p != nil {
		*p = v
		return
	}
	s.storage.AddSingleton(&v)
	s.refresh()
}

// Exists reports whether the singleton has been added.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
