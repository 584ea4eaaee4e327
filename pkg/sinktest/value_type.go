package sinktest

// ValueType is the abstract category a column's materialized values are
// checked against, independent of the vendor's concrete SQL type.
type ValueType string

const (
	ValueBoolean  = ValueType("boolean")
	ValueText     = ValueType("text")
	ValueDate     = ValueType("date")
	ValueTime     = ValueType("time")
	ValueDateTime = ValueType("datetime")
	ValueNumber   = ValueType("number")
	ValueUUID     = ValueType("uuid")
	ValueBytes    = ValueType("bytes")
)

func (v ValueType) String() string {
	return string(v)
}
