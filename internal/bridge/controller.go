package bridge

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"remo/internal/player"
)

var _ player.Listener = (*EventPublisher)(nil)

const (
	bridgeStopped  = "stopped"
	bridgeStarting = "starting"
	bridgeRunning  = "running"
	bridgeStopping = "stopping"
)

// Controller owns the bus connection and wires inbound messages to the
// dispatcher. Start opens and subscribes; Stop tears down on every shutdown
// path. Restart policy belongs to the supervisor, not to the controller.
type Controller struct {
	mu         sync.Mutex
	conn       Conn
	dispatcher *Dispatcher
	publisher  *EventPublisher
	prefix     string
	log        *slog.Logger
	state      string
	done       chan struct{}
	doneOnce   sync.Once
}

func NewController(conn Conn, p Player, prefix string, log *slog.Logger) *Controller {
	publisher := NewEventPublisher(conn, prefix, log)
	c := &Controller{
		conn:      conn,
		publisher: publisher,
		prefix:    prefix,
		log:       log,
		state:     bridgeStopped,
		done:      make(chan struct{}),
	}
	c.dispatcher = NewDispatcher(p, publisher, log)
	return c
}

// Listener exposes the outbound side for the player facade to notify.
func (c *Controller) Listener() player.Listener {
	return c.publisher
}

// Done is closed once the controller has stopped, on any shutdown path.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state != bridgeStopped {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("bridge is %s, not stopped", state)
	}
	c.state = bridgeStarting
	c.mu.Unlock()

	if err := c.conn.Connect(); err != nil {
		c.setState(bridgeStopped)
		return fmt.Errorf("open bus connection: %w", err)
	}

	filter := c.filter()
	if err := c.conn.Subscribe(filter, c.onMessage); err != nil {
		c.conn.Disconnect()
		c.setState(bridgeStopped)
		return fmt.Errorf("subscribe commands: %w", err)
	}

	c.setState(bridgeRunning)
	c.log.Info("bridge running", "commands", filter)
	return nil
}

// Stop is safe to call from any state and more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state != bridgeRunning {
		c.mu.Unlock()
		return
	}
	c.state = bridgeStopping
	c.mu.Unlock()

	if err := c.conn.Unsubscribe(c.filter()); err != nil {
		c.log.Warn("unsubscribe failed", "error", err)
	}
	c.conn.Disconnect()

	c.setState(bridgeStopped)
	c.doneOnce.Do(func() { close(c.done) })
	c.log.Info("bridge stopped")
}

func (c *Controller) onMessage(topic string, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("unrecoverable dispatch failure", "topic", topic, "panic", r)
			// The bus client waits for in-flight handlers when
			// disconnecting, so tearing down on this goroutine would
			// deadlock. The RUNNING gate keeps the teardown single.
			go c.Stop()
		}
	}()

	c.mu.Lock()
	running := c.state == bridgeRunning
	c.mu.Unlock()
	if !running {
		return
	}

	action := strings.TrimPrefix(topic, c.prefix+"/")
	if action == topic {
		c.log.Warn("message outside command namespace", "topic", topic)
		return
	}

	// State topics share the namespace, so our own retained messages come
	// back on the command subscription. sta and trk are outbound-only.
	if action == topicState || action == topicTrack {
		return
	}

	c.dispatcher.Dispatch(action, payload)
}

func (c *Controller) filter() string {
	return c.prefix + "/+"
}

func (c *Controller) setState(state string) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}
