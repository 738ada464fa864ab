// Package event assigns stable identities to event kinds and holds the
// registered set of kinds a dispatch table is built against.
//
// An event kind is usually a Go type: TypeOf[ConnOpened]() yields its identity.
// Kinds that only exist in configuration can be created with Named.
package event

import (
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Kind is the stable identity of an event kind.
type Kind uint64

// Type pairs a Kind with the name it was derived from.
type Type struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

// String returns the type name.
func (t Type) String() string { return t.Name }

var typeCache sync.Map // reflect.Type -> Type

// TypeOf returns the identity of the Go type E.
// The identity is derived from the fully qualified type name, so it is
// stable across builds and processes.
func TypeOf[E any]() Type {
	rt := reflect.TypeFor[E]()
	if cached, ok := typeCache.Load(rt); ok {
		return cached.(Type)
	}
	t := Named(typeName(rt))
	typeCache.Store(rt, t)
	return t
}

// KindOf is shorthand for TypeOf[E]().Kind.
func KindOf[E any]() Kind {
	return TypeOf[E]().Kind
}

// Named returns the identity of an event kind known only by name.
func Named(name string) Type {
	return Type{Kind: Kind(xxhash.Sum64String(name)), Name: name}
}

func typeName(rt reflect.Type) string {
	if rt.Name() != "" && rt.PkgPath() != "" {
		return rt.PkgPath() + "." + rt.Name()
	}
	return rt.String()
}
