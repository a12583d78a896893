package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ido50/dbz"
)

// parseBindings converts --bind values into bindings. Values of the form
// ":name=value" are named bindings, everything else is positional.
func parseBindings(values []string) []interface{} {
	var bind []interface{}
	named := dbz.Named{}

	for _, value := range values {
		if strings.HasPrefix(value, ":") {
			if name, val, ok := strings.Cut(value[1:], "="); ok && name != "" {
				named[name] = val
				continue
			}
		}
		bind = append(bind, value)
	}

	if len(named) > 0 {
		bind = append([]interface{}{named}, bind...)
	}

	return bind
}

// parseFields converts "column=value" arguments into a field map. The
// value NULL is stored as a null.
func parseFields(args []string) (dbz.FieldMap, error) {
	fields := make(dbz.FieldMap, len(args))

	for _, arg := range args {
		col, val, ok := strings.Cut(arg, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid field %q, expected column=value", arg)
		}

		if val == "NULL" {
			fields[col] = nil
		} else {
			fields[col] = val
		}
	}

	return fields, nil
}

func writeRows(w io.Writer, rows []dbz.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
