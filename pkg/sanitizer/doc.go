// Package sanitizer normalizes customer input before validation and storage.
//
// All functions are idempotent. Invalid input is returned in a form the
// validator will reject rather than as an error, so the caller reports a single
// list of field problems.
//
// Normalization includes:
//   - Phone numbers: E.164 (+[country][number]) when the number parses
//   - Emails: trimmed and lowercased
//   - Names: whitespace collapsed and trimmed
package sanitizer
