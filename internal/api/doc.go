// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// services in internal/service and map their errors to status codes through
// HandleAPIError.
package api
