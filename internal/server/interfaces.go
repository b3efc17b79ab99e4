package server

// Server is the lifecycle of the transport servers managed by this package.
type Server interface {
	// RunServer serves requests and blocks until a stop signal arrives.
	RunServer()

	// Shutdown gracefully stops every server. It is safe to call more than
	// once.
	Shutdown()
}
