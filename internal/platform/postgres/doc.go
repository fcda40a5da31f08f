// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles the details of query building, execution, and data
// mapping between domain entities and database records.
//
// Statements are built with squirrel using dollar placeholders and executed
// through sqlx, so every store accepts either a *sqlx.DB or a *sqlx.Tx.
// The schema lives in the embedded migrations directory and is applied with goose.
package postgres
