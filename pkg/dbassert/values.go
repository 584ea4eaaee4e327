package dbassert

import (
	"bytes"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Drivers disagree on scan types for the same logical value: MySQL hands out
// []byte for almost everything, pgx produces native Go types, ClickHouse has
// its own ideas about integers. The predicates and the comparison below
// accept every encoding the supported backends are known to produce.

var dateLayouts = []string{
	"2006-01-02",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04:05.999999999",
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func isBooleanValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return true
	case int64:
		return v == 0 || v == 1
	case string:
		return isBooleanLiteral(v)
	case []byte:
		return isBooleanLiteral(string(v))
	}
	return false
}

func isBooleanLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "0", "1", "true", "false":
		return true
	}
	return false
}

func isTextValue(value any) bool {
	switch value.(type) {
	case string, []byte:
		return true
	}
	return false
}

func isNumberValue(value any) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case string:
		return parsesAsNumber(v)
	case []byte:
		return parsesAsNumber(string(v))
	}
	return false
}

func parsesAsNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isDateValue(value any) bool {
	return isTemporalValue(value, dateLayouts)
}

func isTimeValue(value any) bool {
	return isTemporalValue(value, timeLayouts)
}

func isDateTimeValue(value any) bool {
	return isTemporalValue(value, dateTimeLayouts)
}

func isTemporalValue(value any, layouts []string) bool {
	switch v := value.(type) {
	case time.Time:
		return true
	case string:
		_, ok := parseTemporal(v, layouts)
		return ok
	case []byte:
		_, ok := parseTemporal(string(v), layouts)
		return ok
	}
	return false
}

func parseTemporal(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func isUUIDValue(value any) bool {
	switch v := value.(type) {
	case uuid.UUID:
		return true
	case string:
		_, err := uuid.Parse(v)
		return err == nil
	case []byte:
		if len(v) == 16 {
			return true
		}
		_, err := uuid.Parse(string(v))
		return err == nil
	}
	return false
}

func isBytesValue(value any) bool {
	_, ok := value.([]byte)
	return ok
}

// equalValues compares an expected value from test code with a value the
// driver materialized. nil matches only NULL.
func equalValues(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	switch want := expected.(type) {
	case bool:
		return equalBool(want, actual)
	case string:
		got, ok := stringValue(actual)
		return ok && got == want
	case []byte:
		return equalBytes(want, actual)
	case time.Time:
		return equalTime(want, actual)
	case uuid.UUID:
		got, ok := stringValue(actual)
		return ok && strings.EqualFold(want.String(), got)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return equalNumber(expected, actual)
	}
	return reflect.DeepEqual(expected, actual)
}

func equalBool(want bool, actual any) bool {
	switch got := actual.(type) {
	case bool:
		return got == want
	case int64:
		return (got == 1) == want
	case string:
		return boolLiteral(got) == want && isBooleanLiteral(got)
	case []byte:
		s := string(got)
		return boolLiteral(s) == want && isBooleanLiteral(s)
	}
	return false
}

func boolLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true":
		return true
	}
	return false
}

func equalBytes(want []byte, actual any) bool {
	switch got := actual.(type) {
	case []byte:
		return bytes.Equal(want, got)
	case string:
		return string(want) == got
	}
	return false
}

func equalTime(want time.Time, actual any) bool {
	switch got := actual.(type) {
	case time.Time:
		return got.Equal(want)
	case string:
		return parsedTimeEquals(got, want)
	case []byte:
		return parsedTimeEquals(string(got), want)
	}
	return false
}

func parsedTimeEquals(s string, want time.Time) bool {
	layouts := make([]string, 0, len(dateTimeLayouts)+len(dateLayouts)+len(timeLayouts))
	layouts = append(layouts, dateTimeLayouts...)
	layouts = append(layouts, dateLayouts...)
	layouts = append(layouts, timeLayouts...)
	parsed, ok := parseTemporal(s, layouts)
	if !ok {
		return false
	}
	// Backends drop the zone on the way through, compare field-wise in UTC.
	return parsed.UTC().Format("2006-01-02 15:04:05.999999999") ==
		want.UTC().Format("2006-01-02 15:04:05.999999999")
}

func equalNumber(expected, actual any) bool {
	want, ok := toFloat(expected)
	if !ok {
		return false
	}
	got, ok := toFloat(actual)
	if !ok {
		return false
	}
	return want == got
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		return parsed, err == nil
	case []byte:
		parsed, err := strconv.ParseFloat(string(v), 64)
		return parsed, err == nil
	}
	return 0, false
}

func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}
