// Package httputil provides HTTP helpers for the tangent frame server.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] maps coded
// errors from [github.com/matzehuels/tangent/pkg/errors] to HTTP statuses
// and writes a JSON body of the form:
//
//	{"error": "width must be a positive number, got -1", "code": "INVALID_SIZE"}
//
// # Query Parameters
//
// [QueryFloat], [QueryUint] and [QueryInts] parse optional query values.
// A missing parameter yields the zero value; a malformed one yields an
// INVALID_INPUT error that [WriteError] turns into 400 Bad Request.
//
// # Middleware
//
// [Observe] reports every request and response to the HTTP hooks
// registered with [github.com/matzehuels/tangent/pkg/observability].
package httputil
