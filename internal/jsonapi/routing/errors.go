package routing

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid arguments when registering custom resource actions")
	ErrUnknownController = errors.New("unknown controller")
	ErrUnknownMiddleware = errors.New("unknown middleware")
	ErrMissingHandler    = errors.New("controller does not handle action")
	ErrRouteNotFound     = errors.New("route not found")
	ErrDuplicateRoute    = errors.New("route already registered")
	ErrRouteConflict     = errors.New("route conflicts with a registered route")
)
