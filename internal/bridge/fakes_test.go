package bridge

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"remo/internal/player"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sentMessage struct {
	topic   string
	payload string
	retain  bool
}

// fakeConn records bus traffic and hands captured subscriptions back to the
// test so it can inject inbound messages.
type fakeConn struct {
	mu           sync.Mutex
	connected    bool
	connectErr   error
	subscribeErr error
	publishErr   error
	connects     int
	disconnects  int
	subscribed   map[string]MessageHandler
	unsubscribed []string
	sent         []sentMessage
}

func newFakeConn() *fakeConn {
	return &fakeConn{subscribed: make(map[string]MessageHandler)}
}

func (c *fakeConn) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connectErr != nil {
		return c.connectErr
	}
	c.connected = true
	c.connects++
	return nil
}

func (c *fakeConn) Subscribe(filter string, handler MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscribeErr != nil {
		return c.subscribeErr
	}
	c.subscribed[filter] = handler
	return nil
}

func (c *fakeConn) Unsubscribe(filter string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unsubscribed = append(c.unsubscribed, filter)
	delete(c.subscribed, filter)
	return nil
}

func (c *fakeConn) Publish(topic string, payload string, retain bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.publishErr != nil {
		return c.publishErr
	}
	c.sent = append(c.sent, sentMessage{topic: topic, payload: payload, retain: retain})
	return nil
}

func (c *fakeConn) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false
	c.disconnects++
}

func (c *fakeConn) messages() []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]sentMessage(nil), c.sent...)
}

func (c *fakeConn) handler(filter string) MessageHandler {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.subscribed[filter]
}

// fakePlayer records facade calls. calls holds method names in order.
type fakePlayer struct {
	calls      []string
	state      player.PlaybackState
	volume     int
	volumesSet []int
	added      []string
	failNext   error
	panicNext  bool
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{state: player.StateStopped, volume: 50}
}

func (p *fakePlayer) call(name string) error {
	if p.panicNext {
		panic("player exploded")
	}
	p.calls = append(p.calls, name)
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return err
	}
	return nil
}

func (p *fakePlayer) Play() error { return p.call("play") }

func (p *fakePlayer) Stop() error { return p.call("stop") }

func (p *fakePlayer) Pause() error { return p.call("pause") }

func (p *fakePlayer) Resume() error { return p.call("resume") }

func (p *fakePlayer) Previous() error { return p.call("previous") }

func (p *fakePlayer) Next() error { return p.call("next") }

func (p *fakePlayer) Clear() error { return p.call("clear") }

func (p *fakePlayer) State() player.PlaybackState { return p.state }

func (p *fakePlayer) Volume() int { return p.volume }

func (p *fakePlayer) SetVolume(volume int) error {
	if err := p.call("setvolume"); err != nil {
		return err
	}
	if volume < player.VolumeMin {
		volume = player.VolumeMin
	}
	if volume > player.VolumeMax {
		volume = player.VolumeMax
	}
	p.volume = volume
	p.volumesSet = append(p.volumesSet, volume)
	return nil
}

func (p *fakePlayer) Add(uri string) {
	_ = p.call("add")
	p.added = append(p.added, uri)
}

var errPlayerDown = errors.New("player unreachable")
