// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
)

// Warehouse schema emission. The exported NDJSON objects are meant to be
// queried in place; these helpers produce the table definitions for the two
// supported engines so the tables don't have to be hand-maintained.

// BigQuerySchema returns the BigQuery table schema for a collection's export.
func BigQuerySchema(c Collection) bigquery.Schema {
	var s bigquery.Schema
	for _, col := range c.Columns {
		f := &bigquery.FieldSchema{Name: col.Name}
		switch col.Type {
		case Int:
			f.Type = bigquery.IntegerFieldType
		case Float:
			f.Type = bigquery.FloatFieldType
		case Date:
			f.Type = bigquery.DateFieldType
		default:
			f.Type = bigquery.StringFieldType
		}
		s = append(s, f)
	}
	return s
}

// hiveType maps a column type to its Athena (Hive DDL) type.
func hiveType(t Type) string {
	switch t {
	case Int:
		return "bigint"
	case Float:
		return "double"
	case Date:
		return "date"
	default:
		return "string"
	}
}

// AthenaDDL returns a CREATE EXTERNAL TABLE statement for a collection's
// export. location is the storage URI holding the collection's objects
// (e.g. "s3://my-bucket/user_tiktok_metrics/").
func AthenaDDL(c Collection, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE EXTERNAL TABLE IF NOT EXISTS `%s` (\n", strings.ToLower(c.Name))
	for i, col := range c.Columns {
		sep := ","
		if i == len(c.Columns)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  `%s` %s%s\n", col.Name, hiveType(col.Type), sep)
	}
	b.WriteString(")\n")
	b.WriteString("ROW FORMAT SERDE 'org.openx.data.jsonserde.JsonSerDe'\n")
	fmt.Fprintf(&b, "LOCATION '%s';", location)
	return b.String()
}
