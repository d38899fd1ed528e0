// Package apperr maps errors of any shape onto the JSON error envelope the
// HTTP layer returns.
//
// Operational errors created with New or Wrap carry their own status code and
// message. Everything else (storage constraint failures, validation failures,
// token errors, upload and body parsing failures) is classified by Mapper.
package apperr
