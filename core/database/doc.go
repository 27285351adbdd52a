// Package database handles database connections and schema inspection.
//
// It wraps GORM so that both sides of a sync run (the EPOS source and the storefront
// destination) can be opened from the same Config type, whatever their engine.
//
// # Connect
//
// Connect builds a dialector for mysql, postgres, sqlserver or sqlite. An explicit DSN wins
// over the discrete host/port/user fields, which keeps existing connection strings usable.
// The pool is capped to a single connection: a run reads and writes serially.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns back the preflight check that runs before every sync.
//
// # Usage
//
//	db, err := database.Connect(cfg.Source)
//	if err != nil {
//	    return err
//	}
//	defer database.Close(db)
package database
