package rqlite

// scanner.go maps SQL rows onto records and small row structs.

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

// scanRecords drains rows into records keyed by column name.
func scanRecords(rows *sql.Rows) ([]backend.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make([]backend.Record, 0)
	for rows.Next() {
		m, err := scanRowToMap(rows, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// scanRowToMap scans the current row into a map[string]any.
func scanRowToMap(rows *sql.Rows, cols []string) (backend.Record, error) {
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	out := make(backend.Record, len(cols))
	for i, c := range cols {
		out[c] = normalizeSQLValue(raw[i])
	}
	return out, nil
}

// normalizeSQLValue converts driver values to plain Go types.
func normalizeSQLValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return v
	}
}

// toSQLArg flattens composite values (maps, slices) into JSON text so the
// driver can bind them.
func toSQLArg(v any) any {
	if v == nil {
		return nil
	}
	switch v.(type) {
	case []byte, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// scanStruct scans the current row into a struct whose fields carry `db` tags.
// Only string fields are populated; auth rows are all text.
func scanStruct(rows *sql.Rows, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a non-nil pointer to struct")
	}
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return err
	}
	elem := rv.Elem()
	index := buildFieldIndex(elem.Type())
	for i, c := range cols {
		idx, ok := index[strings.ToLower(c)]
		if !ok || raw[i] == nil {
			continue
		}
		field := elem.Field(idx)
		if field.Kind() != reflect.String || !field.CanSet() {
			continue
		}
		field.SetString(fmt.Sprint(normalizeSQLValue(raw[i])))
	}
	return nil
}

// buildFieldIndex maps lowercase column names to field indices.
func buildFieldIndex(t reflect.Type) map[string]int {
	m := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		col := strings.Split(f.Tag.Get("db"), ",")[0]
		if col == "" {
			col = f.Name
		}
		m[strings.ToLower(col)] = i
	}
	return m
}
