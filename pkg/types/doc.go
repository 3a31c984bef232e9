// Package types holds the small set of interfaces shared across depotc
// packages. Keeping them here avoids import cycles between the filesystem
// implementations and the packages that consume them.
package types
