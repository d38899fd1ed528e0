// Package auth hashes credentials and issues the signed session tokens
// presented as Bearer tokens.
package auth
