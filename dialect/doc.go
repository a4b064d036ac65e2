// Package dialect provides the database abstraction the record layer
// is built on.
//
// The package defines the [Driver], [Tx] and [ExecQuerier] interfaces
// together with the dialect name constants for the supported backends:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// The dialect/sql sub-package implements Driver on top of the standard
// database/sql package:
//
//	import (
//	    "github.com/syssam/relsync/dialect"
//	    "github.com/syssam/relsync/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
package dialect
