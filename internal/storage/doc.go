// Package storage provides BoltDB-based implementations of the domain
// repositories.
//
// Records are persisted with BoltHold. Constraint violations surface as
// *KnownRequestError values carrying a Code and the offending fields, malformed
// records as *ValidationError, and open failures as *InitializationError, so
// callers can classify them with errors.As.
package storage
