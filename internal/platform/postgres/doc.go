// Package postgres implements the repositories of internal/store on
// PostgreSQL through the pgx database/sql driver. It maps driver errors to
// store sentinels and owns the goose schema migrations.
package postgres
