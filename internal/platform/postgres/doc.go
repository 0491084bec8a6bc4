// Package postgres stores planner records in the planner_records table of a
// PostgreSQL database. It connects through the pgx database/sql driver and
// ships its schema as goose migrations embedded in the binary.
package postgres
