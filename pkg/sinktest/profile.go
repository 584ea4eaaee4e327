package sinktest

import (
	"fmt"
	"strings"
)

// TestDatabase is the working database connectors write into on backends
// whose containers cannot select an initial database at connection time.
const TestDatabase = "testDB"

// vendorProfile is the per-backend capability table. Supporting a new backend
// is a matter of adding an entry here, not of touching the sink code.
type vendorProfile struct {
	// normalizeIdent maps a declared identifier to the form the backend's
	// metadata catalog reports it in.
	normalizeIdent func(string) string
	// urlSuffix is appended verbatim to the handle's native URL.
	urlSuffix string
	// postConnect statements run once, right after the connection is pinned.
	postConnect []string
	// columnMetadata builds the catalog query for one column. The query must
	// yield a single row of (type_name, column_size, numeric_precision,
	// numeric_scale), mirroring the JDBC getColumns result shape.
	columnMetadata func(table, column string) string
}

var vendorProfiles = map[SinkType]vendorProfile{
	MySQL: {
		normalizeIdent: identityIdent,
		columnMetadata: func(table, column string) string {
			return fmt.Sprintf(`
				SELECT data_type,
				       COALESCE(character_maximum_length, numeric_precision, 0),
				       COALESCE(numeric_precision, 0),
				       COALESCE(numeric_scale, 0)
				FROM information_schema.columns
				WHERE table_schema = DATABASE() AND table_name = '%s' AND column_name = '%s'`,
				sqlLiteral(table), sqlLiteral(column))
		},
	},
	PostgreSQL: {
		normalizeIdent: identityIdent,
		columnMetadata: func(table, column string) string {
			// udt_name rather than data_type: the catalog's "character
			// varying" never matches the declared VARCHAR.
			return fmt.Sprintf(`
				SELECT udt_name,
				       COALESCE(character_maximum_length, numeric_precision, 0),
				       COALESCE(numeric_precision, 0),
				       COALESCE(numeric_scale, 0)
				FROM information_schema.columns
				WHERE table_schema = current_schema() AND table_name = '%s' AND column_name = '%s'`,
				sqlLiteral(table), sqlLiteral(column))
		},
	},
	SQLServer: {
		normalizeIdent: identityIdent,
		urlSuffix:      ";databaseName=" + TestDatabase,
		postConnect:    []string{"USE " + TestDatabase},
		columnMetadata: func(table, column string) string {
			return fmt.Sprintf(`
				SELECT data_type,
				       COALESCE(character_maximum_length, numeric_precision, 0),
				       COALESCE(numeric_precision, 0),
				       COALESCE(numeric_scale, 0)
				FROM information_schema.columns
				WHERE table_name = '%s' AND column_name = '%s'`,
				sqlLiteral(table), sqlLiteral(column))
		},
	},
	Oracle: {
		normalizeIdent: strings.ToUpper,
		columnMetadata: func(table, column string) string {
			return fmt.Sprintf(`
				SELECT data_type,
				       COALESCE(char_length, data_precision, data_length),
				       COALESCE(data_precision, 0),
				       COALESCE(data_scale, 0)
				FROM all_tab_columns
				WHERE table_name = '%s' AND column_name = '%s'`,
				sqlLiteral(table), sqlLiteral(column))
		},
	},
	DB2: {
		normalizeIdent: strings.ToUpper,
		columnMetadata: func(table, column string) string {
			return fmt.Sprintf(`
				SELECT typename, length, length, COALESCE(scale, 0)
				FROM syscat.columns
				WHERE tabname = '%s' AND colname = '%s'`,
				sqlLiteral(table), sqlLiteral(column))
		},
	},
	ClickHouse: {
		normalizeIdent: identityIdent,
		columnMetadata: func(table, column string) string {
			return fmt.Sprintf(`
				SELECT type,
				       COALESCE(character_octet_length, numeric_precision, 0),
				       COALESCE(numeric_precision, 0),
				       COALESCE(numeric_scale, 0)
				FROM system.columns
				WHERE database = currentDatabase() AND table = '%s' AND name = '%s'`,
				sqlLiteral(table), sqlLiteral(column))
		},
	},
}

func profileFor(typ SinkType) vendorProfile {
	profile, ok := vendorProfiles[typ]
	if !ok {
		panic(fmt.Sprintf("unknown sink type: %s", typ))
	}
	return profile
}

func identityIdent(name string) string {
	return name
}

// sqlLiteral escapes a name for embedding in a single-quoted SQL literal.
// Names come from test code, catalog queries do not support bind parameters
// uniformly across these backends.
func sqlLiteral(name string) string {
	return strings.ReplaceAll(name, "'", "''")
}
