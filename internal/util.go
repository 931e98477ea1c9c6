package internal

import "reflect"

// IsTypedNil reports whether v is nil or an interface holding a nil
// pointer/map/slice/func/chan. Registries use it to reject values that
// would pass a plain nil check but explode on first use.
func IsTypedNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
