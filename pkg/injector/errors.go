package injector

import (
	"fmt"
	"reflect"
)

// MissingDependencyError is returned when the Injector cannot resolve a
// requested type, either directly (Get) or as a parameter of a function
// passed to Call (spec.md §7 "MissingDependency").
type MissingDependencyError struct {
	Type  reflect.Type
	Index int // parameter index when raised from Call; -1 for Get/Find
}

func (e *MissingDependencyError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("injector: missing dependency for parameter %d of type %s", e.Index, e.Type)
	}
	return fmt.Sprintf("injector: missing dependency for type %s", e.Type)
}

// CycleDetectedError is returned at build time when resolving a provider
// would re-enter a provider already being built (spec.md §7 "CycleDetected").
type CycleDetectedError struct {
	Type reflect.Type
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("injector: dependency cycle detected while building %s", e.Type)
}
