// Package api defines the KhataBook v1 wire messages.
//
// Messages are plain structs carried as JSON by the codec in package
// apiconnect. Amounts are decimal currency units rounded to cents; dates and
// timestamps are Unix seconds.
package api
