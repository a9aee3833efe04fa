// Package service contains the business logic.
//
// It sits between the handler layer and the state registry clients.
// It receives validated queries from the handler, dispatches them to the
// jurisdiction's registry and interprets the result.
package service
