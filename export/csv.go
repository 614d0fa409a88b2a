package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/gocarina/gocsv"
)

var ErrNoData = errors.New("no data extracted")

// MarshalCSV renders rows, a slice of csv-tagged structs, with a header row.
func MarshalCSV(rows any) ([]byte, error) {
	n, err := rowCount(rows)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoData
	}
	return gocsv.MarshalBytes(rows)
}

// WriteCSV writes rows to path. Nothing is created when rows is empty.
func WriteCSV(path string, rows any) error {
	data, err := MarshalCSV(rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// records renders rows as header plus string records, the same text the CSV holds.
func records(rows any) ([][]string, error) {
	data, err := MarshalCSV(rows)
	if err != nil {
		return nil, err
	}
	return csv.NewReader(strings.NewReader(string(data))).ReadAll()
}

func rowCount(rows any) (int, error) {
	v := reflect.ValueOf(rows)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v.Len(), nil
	case reflect.Invalid:
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot export %T: want a slice of rows", rows)
	}
}
