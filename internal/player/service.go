package player

import (
	"errors"
	"log/slog"
	"sync"

	"remo/internal/queue"
)

type PlaybackState string

const (
	StateStopped PlaybackState = "stopped"
	StatePaused  PlaybackState = "paused"
	StatePlaying PlaybackState = "playing"
)

const (
	VolumeMin = 0
	VolumeMax = 100
)

// Listener receives playback lifecycle callbacks. Callbacks may fire from the
// backend's event goroutine; implementations must not call back into Service.
type Listener interface {
	PlaybackStateChanged(oldState, newState PlaybackState)
	TrackPlaybackStarted(track Track)
	TrackPlaybackEnded(track Track, positionMS int)
	VolumeChanged(volume int)
	StreamTitleChanged(title string)
}

// Service is the playback facade: queue-aware transport control, clamped
// volume, and lifecycle notifications over one backend.
type Service struct {
	mu       sync.Mutex
	backend  playbackBackend
	queue    *queue.Service
	log      *slog.Logger
	state    PlaybackState
	volume   int
	current  Track
	hasTrack bool
	listener Listener
}

type Config struct {
	Volume int
}

func NewService(cfg Config, queueService *queue.Service, log *slog.Logger) (*Service, error) {
	backend, err := newPlaybackBackend()
	if err != nil {
		return nil, err
	}

	return newServiceWithBackend(cfg, queueService, backend, log), nil
}

func newServiceWithBackend(cfg Config, queueService *queue.Service, backend playbackBackend, log *slog.Logger) *Service {
	service := &Service{
		backend: backend,
		queue:   queueService,
		log:     log,
		state:   StateStopped,
		volume:  clampVolume(cfg.Volume),
	}

	backend.SetOnEOF(service.onEOF)
	backend.SetOnStreamTitle(service.onStreamTitle)

	if err := backend.SetVolume(service.volume); err != nil {
		log.Warn("set initial volume", "volume", service.volume, "error", err)
	}

	return service
}

func (s *Service) SetListener(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = listener
}

func (s *Service) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetVolume clamps to [VolumeMin, VolumeMax] before touching the backend.
func (s *Service) SetVolume(volume int) error {
	clamped := clampVolume(volume)

	s.mu.Lock()
	unchanged := clamped == s.volume
	s.mu.Unlock()

	if unchanged {
		return nil
	}

	if err := s.backend.SetVolume(clamped); err != nil {
		return err
	}

	s.mu.Lock()
	s.volume = clamped
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.VolumeChanged(clamped)
	}

	return nil
}

// Play starts the current queue entry, selecting the first one when nothing
// is selected yet.
func (s *Service) Play() error {
	uri, ok := s.queue.Current()
	if !ok {
		uri, ok = s.queue.First()
	}
	if !ok {
		return errors.New("queue is empty")
	}

	return s.playURI(uri)
}

func (s *Service) Stop() error {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	positionMS := s.position()
	if err := s.backend.Stop(); err != nil {
		return err
	}

	s.mu.Lock()
	oldState := s.state
	ended, hadTrack := s.current, s.hasTrack
	s.state = StateStopped
	s.hasTrack = false
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		if hadTrack {
			listener.TrackPlaybackEnded(ended, positionMS)
		}
		listener.PlaybackStateChanged(oldState, StateStopped)
	}

	return nil
}

func (s *Service) Pause() error {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.backend.Pause(); err != nil {
		return err
	}

	return s.transition(StatePaused)
}

// Resume unpauses. It does nothing when stopped; toggling from stopped is the
// caller's business.
func (s *Service) Resume() error {
	s.mu.Lock()
	if s.state != StatePaused {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.backend.Play(); err != nil {
		return err
	}

	return s.transition(StatePlaying)
}

// Next skips to the next queue entry. At the end of the queue playback stops.
func (s *Service) Next() error {
	uri, ok := s.queue.Next()
	if !ok {
		return s.Stop()
	}

	if s.State() == StateStopped {
		return nil
	}

	return s.playURI(uri)
}

// Previous skips back one queue entry. At the head of the queue it is a no-op.
func (s *Service) Previous() error {
	uri, ok := s.queue.Previous()
	if !ok {
		return nil
	}

	if s.State() == StateStopped {
		return nil
	}

	return s.playURI(uri)
}

func (s *Service) Add(uri string) {
	total := s.queue.Add(uri)
	s.log.Debug("queued", "uri", uri, "total", total)
}

// Clear empties the queue. The current track goes with it, so playback stops.
func (s *Service) Clear() error {
	s.queue.Clear()
	return s.Stop()
}

func (s *Service) Close() error {
	return s.backend.Close()
}

func (s *Service) playURI(uri string) error {
	positionMS := s.position()

	if err := s.backend.Load(uri); err != nil {
		return err
	}
	if err := s.backend.Play(); err != nil {
		return err
	}

	track := trackForURI(uri)

	s.mu.Lock()
	oldState := s.state
	ended, hadTrack := s.current, s.hasTrack
	s.state = StatePlaying
	s.current = track
	s.hasTrack = true
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		if hadTrack && oldState != StateStopped {
			listener.TrackPlaybackEnded(ended, positionMS)
		}
		if oldState != StatePlaying {
			listener.PlaybackStateChanged(oldState, StatePlaying)
		}
		listener.TrackPlaybackStarted(track)
	}

	return nil
}

func (s *Service) transition(newState PlaybackState) error {
	s.mu.Lock()
	oldState := s.state
	s.state = newState
	listener := s.listener
	s.mu.Unlock()

	if listener != nil && oldState != newState {
		listener.PlaybackStateChanged(oldState, newState)
	}

	return nil
}

func (s *Service) onEOF() {
	uri, ok := s.queue.Next()
	if ok {
		if err := s.playURI(uri); err != nil {
			s.log.Warn("advance after end of track failed", "uri", uri, "error", err)
		}
		return
	}

	s.mu.Lock()
	oldState := s.state
	ended, hadTrack := s.current, s.hasTrack
	s.state = StateStopped
	s.hasTrack = false
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		return
	}
	if hadTrack {
		listener.TrackPlaybackEnded(ended, 0)
	}
	if oldState != StateStopped {
		listener.PlaybackStateChanged(oldState, StateStopped)
	}
}

func (s *Service) onStreamTitle(title string) {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.StreamTitleChanged(title)
	}
}

func (s *Service) position() int {
	positionMS, err := s.backend.PositionMS()
	if err != nil {
		s.log.Debug("read playback position", "error", err)
		return 0
	}
	return positionMS
}

func clampVolume(volume int) int {
	if volume < VolumeMin {
		return VolumeMin
	}
	if volume > VolumeMax {
		return VolumeMax
	}
	return volume
}
