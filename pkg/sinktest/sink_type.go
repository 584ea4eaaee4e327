package sinktest

// SinkType identifies the relational backend a verification sink talks to.
type SinkType string

const (
	MySQL      = SinkType("mysql")
	PostgreSQL = SinkType("pg")
	SQLServer  = SinkType("sqlserver")
	Oracle     = SinkType("oracle")
	DB2        = SinkType("db2")
	ClickHouse = SinkType("ch")
)

var sinkTypeName = map[SinkType]string{
	MySQL:      "MySQL",
	PostgreSQL: "PostgreSQL",
	SQLServer:  "SQL Server",
	Oracle:     "Oracle",
	DB2:        "DB2",
	ClickHouse: "ClickHouse",
}

// KnownSinkTypes returns every backend the package can dispatch on.
func KnownSinkTypes() []SinkType {
	return []SinkType{MySQL, PostgreSQL, SQLServer, Oracle, DB2, ClickHouse}
}

func (t SinkType) Name() string {
	if name, ok := sinkTypeName[t]; ok {
		return name
	}
	return string(t)
}

// Is reports whether the type matches any of the given types.
func (t SinkType) Is(types ...SinkType) bool {
	for _, candidate := range types {
		if t == candidate {
			return true
		}
	}
	return false
}
