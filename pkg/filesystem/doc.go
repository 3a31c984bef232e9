// Package filesystem provides implementations of the types.FS interface.
// Production code uses NewOS; tests wrap it with fault-injecting
// implementations from pkg/testutil.
package filesystem
