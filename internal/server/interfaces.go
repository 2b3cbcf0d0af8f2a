package server

// Server is the lifecycle contract shared by the transport servers in this
// package. RunServer blocks until the server stops; Shutdown requests a
// graceful stop and releases resources.
type Server interface {
	RunServer()
	Shutdown()
}
