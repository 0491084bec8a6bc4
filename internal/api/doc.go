// Package api exposes the planner over HTTP. Handlers decode and validate
// requests, call the planner service, and map service errors to status codes
// and safe messages; derived views are computed per request from a document
// snapshot.
package api
