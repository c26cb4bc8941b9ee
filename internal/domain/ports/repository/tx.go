package repository

// Tx is an opaque, infra-defined query handle (e.g. pgx.Tx for Postgres).
// Repositories MUST accept nil and fall back to their own pool.
type Tx interface{}
