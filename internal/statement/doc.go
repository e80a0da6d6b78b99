// Package statement turns catalog descriptors and row data into literal
// INSERT, UPDATE, DELETE and SELECT text for MySQL-family databases.
//
// Every builder applies the same literal rule: numerals are written bare,
// anything else is wrapped in double quotes, and a missing or falsy column
// value falls back to the column default. Text is not escaped. Values that
// come from untrusted input must not go through these builders; execute
// them with parameter binding instead.
//
// The builders return an empty string together with a *BuilderError when
// the table is unknown, a required key is absent or there is nothing to
// write. The Build* helpers drop the error and return only the string, so
// callers using them must check for "" before executing.
package statement
