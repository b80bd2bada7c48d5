package middlewares

// Keys under which the middleware chain stashes values on the gin context.
const (
	CtxUserID    = "auth.userID"
	CtxRequestID = "request_id"
)
