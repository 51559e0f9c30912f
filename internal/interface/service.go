package interfaces

// Service is the entrypoint of the daemon, started and stopped by the main
// process.
type Service interface {
	Start() error
	Stop()
}
