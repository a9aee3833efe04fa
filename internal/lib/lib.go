// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains clients for the third-party state registries the service
// queries (e.g. Michigan's WORCS coverage search in lib/worcs).
package lib
