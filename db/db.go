// Column-list derivation for SELECTs based on db struct tags.
package db

import "reflect"

// GetCols returns the database columns of a struct in declaration order,
// skipping fields tagged `db:"-"` (derived, never persisted).
func GetCols(s any) []string {
	t := reflect.TypeOf(s)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var cols []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag := field.Tag.Get("db")

		if tag == "" || tag == "-" {
			continue
		}

		cols = append(cols, tag)
	}

	return cols
}
