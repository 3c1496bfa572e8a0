package gather

import (
	"fmt"
	"reflect"
)

// AddResources registers singleton resources. Resources are pointers and are
// keyed by the pointed-to type; registering a type twice panics.
func (w *World) AddResources(resources ...any) *World {
	for _, resource := range resources {
		resourceType := resourcePointerType(resource)
		if _, ok := w.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}
		w.resources[resourceType.Elem()] = resource
	}
	return w
}

// SetResource registers resource, replacing any resource of the same type.
func (w *World) SetResource(resource any) *World {
	w.resources[resourcePointerType(resource).Elem()] = resource
	return w
}

// RemoveResource drops the resource of sample's type. sample may be a value
// or a pointer.
func (w *World) RemoveResource(sample any) {
	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	delete(w.resources, t)
}

func resourcePointerType(resource any) reflect.Type {
	resourceType := reflect.TypeOf(resource)
	if resourceType == nil || resourceType.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("resource must be a pointer, got %v", resourceType))
	}
	return resourceType
}
