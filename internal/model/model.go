// Package model holds the request and response payloads exchanged over HTTP.
//
// Request types carry echo binding tags and validator rules and implement
// validation.Validatable, so handlers receive them already bound and checked.
package model
