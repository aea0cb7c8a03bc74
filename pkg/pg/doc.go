// Package pg wires the engine's PostgreSQL layer: a pgxpool connection with
// startup retries, goose schema migrations routed through structured
// logging, a pool healthcheck for readiness probes, and error predicates for
// classifying pgx failures inside storage code.
package pg
