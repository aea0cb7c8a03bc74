// Package secrets encrypts sensitive values at rest with AES-256-GCM.
//
// Each value is sealed under a compound key derived via HKDF-SHA256 from the
// application key and a per-owner key, giving every owner an independent
// encryption domain. Used by the Postgres webhook storage to protect shared
// secrets.
package secrets
