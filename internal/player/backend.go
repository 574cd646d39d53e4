package player

// playbackBackend is the contract the facade drives. Load prepares a URI
// paused; Play/Pause flip the pause state of whatever is loaded. Callbacks
// fire on the backend's own event goroutine.
type playbackBackend interface {
	Load(uri string) error
	Play() error
	Pause() error
	Stop() error
	SetVolume(volume int) error
	PositionMS() (int, error)
	SetOnEOF(callback func())
	SetOnStreamTitle(callback func(title string))
	Close() error
}
