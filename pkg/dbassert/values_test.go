package dbassert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEqualValuesNil(t *testing.T) {
	require.True(t, equalValues(nil, nil))
	require.False(t, equalValues(nil, "x"))
	require.False(t, equalValues("x", nil))
}

func TestEqualValuesBool(t *testing.T) {
	require.True(t, equalValues(true, true))
	require.True(t, equalValues(true, int64(1)))
	require.True(t, equalValues(false, int64(0)))
	require.True(t, equalValues(true, []byte("1")))
	require.True(t, equalValues(false, "false"))
	require.False(t, equalValues(true, int64(0)))
	require.False(t, equalValues(true, "banana"))
}

func TestEqualValuesNumbers(t *testing.T) {
	require.True(t, equalValues(42, int64(42)))
	require.True(t, equalValues(int64(42), uint64(42)))
	require.True(t, equalValues(12.5, "12.5"))
	require.True(t, equalValues(float32(2), []byte("2")))
	require.False(t, equalValues(42, int64(43)))
	require.False(t, equalValues(42, "forty-two"))
}

func TestEqualValuesStringsAndBytes(t *testing.T) {
	require.True(t, equalValues("abc", "abc"))
	require.True(t, equalValues("abc", []byte("abc")))
	require.True(t, equalValues([]byte{1, 2}, []byte{1, 2}))
	require.False(t, equalValues("abc", "abd"))
	require.False(t, equalValues("", int64(0)))
}

func TestEqualValuesTime(t *testing.T) {
	moment := time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)
	require.True(t, equalValues(moment, moment))
	require.True(t, equalValues(moment, "2024-03-01 11:30:00"))
	require.True(t, equalValues(moment, []byte("2024-03-01T11:30:00Z")))
	require.False(t, equalValues(moment, "2024-03-01 11:30:01"))
}

func TestEqualValuesUUID(t *testing.T) {
	id := uuid.MustParse("bb3e51aa-1b43-4664-a5ea-6c541a92c21f")
	require.True(t, equalValues(id, "bb3e51aa-1b43-4664-a5ea-6c541a92c21f"))
	require.True(t, equalValues(id, "BB3E51AA-1B43-4664-A5EA-6C541A92C21F"))
	require.False(t, equalValues(id, "1e52c448-bb48-4e51-9ccd-a56ca9a3282c"))
}

func TestNumberPredicate(t *testing.T) {
	require.True(t, isNumberValue(int64(1)))
	require.True(t, isNumberValue(3.14))
	require.True(t, isNumberValue("42"))
	require.True(t, isNumberValue([]byte("-1.5")))
	require.False(t, isNumberValue("x"))
	require.False(t, isNumberValue(true))
}

func TestUUIDPredicate(t *testing.T) {
	require.True(t, isUUIDValue(uuid.New()))
	require.True(t, isUUIDValue("bb3e51aa-1b43-4664-a5ea-6c541a92c21f"))
	require.True(t, isUUIDValue(make([]byte, 16)))
	require.False(t, isUUIDValue("not-a-uuid"))
	require.False(t, isUUIDValue(int64(7)))
}
