package models

import (
	"database/sql/driver"
	"fmt"
)

// enum is the underlying shape of every closed enumeration persisted as text.
// names[0] is reserved for the invalid zero value.
type enum interface {
	~uint8
}

func enumName[T enum](v T, names []string) string {
	if int(v) <= 0 || int(v) >= len(names) {
		return ""
	}
	return names[v]
}

func parseEnum[T enum](s string, names []string, what string) (T, error) {
	for i := 1; i < len(names); i++ {
		if names[i] == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", what, s)
}

func enumValue[T enum](v T, names []string, what string) (driver.Value, error) {
	name := enumName(v, names)
	if name == "" {
		return nil, fmt.Errorf("invalid %s %d", what, uint8(v))
	}
	return name, nil
}

func scanEnum[T enum](dst *T, src interface{}, names []string, what string) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*dst = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into %s", src, what)
	}
	parsed, err := parseEnum[T](s, names, what)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
