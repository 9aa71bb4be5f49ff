package flatten

import (
	"fmt"
	"strings"
)

// ClassNotFoundError reports that the requested root class is missing from
// the class table.
type ClassNotFoundError struct {
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class %q not found in class table", e.Name)
}

// BaseClassNotFoundError reports that an extends clause names a class missing
// from the class table.
type BaseClassNotFoundError struct {
	Class string
	Base  string
}

func (e *BaseClassNotFoundError) Error() string {
	return fmt.Sprintf("base class %q extended by %q not found in class table", e.Base, e.Class)
}

// CyclicExtendsError reports an inheritance cycle, e.g. A extends B extends A.
// Chain holds the class names along the cycle in visit order.
type CyclicExtendsError struct {
	Chain []string
}

func (e *CyclicExtendsError) Error() string {
	return fmt.Sprintf("cyclic extends: %s", strings.Join(e.Chain, " -> "))
}

// RecursiveInstanceError reports a component instantiation cycle: a class
// that, directly or through sub-components, contains an instance of itself.
type RecursiveInstanceError struct {
	Class    string
	Instance string
}

func (e *RecursiveInstanceError) Error() string {
	return fmt.Sprintf("recursive instantiation of class %q via component %q", e.Class, e.Instance)
}
