package router

import "errors"

var (
	// ErrControllerNotFound reports a controller reference that the
	// registry cannot resolve at registration time.
	ErrControllerNotFound = errors.New("router: controller not found")

	// ErrCallableNotFound reports a handler reference that fails to
	// resolve when invoked at dispatch time.
	ErrCallableNotFound = errors.New("router: callable not found")

	// ErrUnknownMethod reports a verb token outside the supported set.
	ErrUnknownMethod = errors.New("router: unknown method")

	// ErrInvalidPattern reports a template whose compiled expression is
	// not valid regex, typically caused by an inline fragment.
	ErrInvalidPattern = errors.New("router: invalid pattern")
)
