package common

const (
	// AuthorizationHeader carries "Bearer <token>" on HTTP requests and the
	// same value in gRPC metadata.
	AuthorizationHeader = "authorization"

	// RequestIDHeader is echoed back on every HTTP response.
	RequestIDHeader = "X-Request-ID"
)
