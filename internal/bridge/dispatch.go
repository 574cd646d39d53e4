package bridge

import (
	"errors"
	"log/slog"
	"strconv"

	"remo/internal/player"
)

// Command action codes, one topic suffix each.
const (
	ActionPlayback = "plb"
	ActionVolume   = "vol"
	ActionAdd      = "add"
	ActionClear    = "clr"
	ActionLoad     = "loa"
	ActionSearch   = "src"
	ActionInfo     = "inf"
)

// ErrNotImplemented marks declared commands without behavior behind them.
var ErrNotImplemented = errors.New("action not implemented")

// Player is the slice of the playback facade the dispatcher drives.
type Player interface {
	Play() error
	Stop() error
	Pause() error
	Resume() error
	Previous() error
	Next() error
	State() player.PlaybackState
	Volume() int
	SetVolume(volume int) error
	Add(uri string)
	Clear() error
}

// Dispatcher routes one decoded inbound message to its action handler.
// Malformed input is logged and dropped; handler errors never propagate.
type Dispatcher struct {
	player   Player
	out      *EventPublisher
	log      *slog.Logger
	handlers map[string]func(value string) error
}

func NewDispatcher(p Player, out *EventPublisher, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{player: p, out: out, log: log}
	d.handlers = map[string]func(string) error{
		ActionPlayback: d.onPlayback,
		ActionVolume:   d.onVolume,
		ActionAdd:      d.onAdd,
		ActionClear:    d.onClear,
		ActionLoad:     d.onLoad,
		ActionSearch:   d.onSearch,
		ActionInfo:     d.onInfo,
	}
	return d
}

func (d *Dispatcher) Dispatch(action string, payload []byte) {
	handler, ok := d.handlers[action]
	if !ok {
		d.log.Warn("unknown action", "action", action)
		return
	}

	if err := handler(string(payload)); err != nil {
		if errors.Is(err, ErrNotImplemented) {
			d.log.Warn("action not implemented", "action", action, "value", string(payload))
			return
		}
		d.log.Warn("action failed", "action", action, "value", string(payload), "error", err)
	}
}

func (d *Dispatcher) onPlayback(value string) error {
	switch value {
	case "play":
		return d.player.Play()
	case "stop":
		return d.player.Stop()
	case "pause":
		return d.player.Pause()
	case "resume":
		return d.player.Resume()
	case "toggle":
		return d.toggle()
	case "prev":
		return d.player.Previous()
	case "next":
		return d.player.Next()
	}

	d.log.Warn("unknown playback control action", "value", value)
	return nil
}

func (d *Dispatcher) toggle() error {
	switch d.player.State() {
	case player.StatePlaying:
		return d.player.Pause()
	case player.StatePaused:
		return d.player.Resume()
	default:
		return d.player.Play()
	}
}

// onVolume handles "<op><digits>" with op one of '=', '-', '+'.
func (d *Dispatcher) onVolume(value string) error {
	if len(value) < 2 {
		d.log.Warn("invalid volume control parameter", "value", value)
		return nil
	}

	operator := value[0]
	amount, err := strconv.Atoi(value[1:])
	if err != nil || amount < 0 {
		d.log.Warn("invalid volume setting value", "value", value[1:])
		return nil
	}

	var target int
	switch operator {
	case '=':
		target = amount
	case '-':
		target = d.player.Volume() - amount
	case '+':
		target = d.player.Volume() + amount
	default:
		d.log.Warn("unknown volume control operator", "operator", string(operator))
		return nil
	}

	return d.player.SetVolume(target)
}

func (d *Dispatcher) onAdd(value string) error {
	if value == "" {
		d.log.Warn("cannot add empty track to queue")
		return nil
	}

	d.player.Add(value)
	return nil
}

func (d *Dispatcher) onClear(string) error {
	return d.player.Clear()
}

func (d *Dispatcher) onLoad(value string) error {
	if value == "" {
		d.log.Warn("cannot load unnamed playlist")
		return nil
	}

	return ErrNotImplemented
}

func (d *Dispatcher) onSearch(value string) error {
	if value == "" {
		d.log.Warn("cannot search without a query")
		return nil
	}

	return ErrNotImplemented
}

func (d *Dispatcher) onInfo(value string) error {
	switch value {
	case "state":
		d.out.PublishState(d.player.State())
		return nil
	case "volume":
		d.out.PublishVolume(d.player.Volume())
		return nil
	case "queue":
		return ErrNotImplemented
	}

	d.log.Warn("unknown information request", "value", value)
	return nil
}
