package dbassert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ColumnAssert checks the materialized values of one column. Category checks
// (IsBoolean, IsText, ...) accept a lenient flag: lenient mode skips NULLs,
// strict mode fails on them.
type ColumnAssert struct {
	t      *testing.T
	table  string
	name   string
	values []any
}

func (c *ColumnAssert) IsBoolean(lenient bool) *ColumnAssert {
	return c.isOfKind("boolean", isBooleanValue, lenient)
}

func (c *ColumnAssert) IsText(lenient bool) *ColumnAssert {
	return c.isOfKind("text", isTextValue, lenient)
}

func (c *ColumnAssert) IsDate(lenient bool) *ColumnAssert {
	return c.isOfKind("date", isDateValue, lenient)
}

func (c *ColumnAssert) IsTime(lenient bool) *ColumnAssert {
	return c.isOfKind("time", isTimeValue, lenient)
}

func (c *ColumnAssert) IsDateTime(lenient bool) *ColumnAssert {
	return c.isOfKind("datetime", isDateTimeValue, lenient)
}

func (c *ColumnAssert) IsNumber(lenient bool) *ColumnAssert {
	return c.isOfKind("number", isNumberValue, lenient)
}

func (c *ColumnAssert) IsUUID(lenient bool) *ColumnAssert {
	return c.isOfKind("uuid", isUUIDValue, lenient)
}

func (c *ColumnAssert) IsBytes(lenient bool) *ColumnAssert {
	return c.isOfKind("bytes", isBytesValue, lenient)
}

// HasValues compares the column against the expected sequence exactly, in
// order. A nil expected value matches only NULL.
func (c *ColumnAssert) HasValues(expected ...any) *ColumnAssert {
	c.t.Helper()
	require.Lenf(c.t, c.values, len(expected),
		"table %s column %s: value count", c.table, c.name)
	for i, want := range expected {
		require.Truef(c.t, equalValues(want, c.values[i]),
			"table %s column %s row %d: value %v (%T) does not equal expected %v (%T)",
			c.table, c.name, i, c.values[i], c.values[i], want, want)
	}
	return c
}

func (c *ColumnAssert) isOfKind(kind string, pred func(any) bool, lenient bool) *ColumnAssert {
	c.t.Helper()
	for i, value := range c.values {
		if value == nil {
			if lenient {
				continue
			}
			require.Failf(c.t, "unexpected NULL",
				"table %s column %s row %d: NULL value in strict %s check", c.table, c.name, i, kind)
		}
		require.Truef(c.t, pred(value),
			"table %s column %s row %d: value %v (%T) is not %s", c.table, c.name, i, value, value, kind)
	}
	return c
}
