package bridge

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MessageHandler receives one inbound message. It is called from the bus
// client's own goroutine.
type MessageHandler func(topic string, payload []byte)

// Conn is the narrow slice of the bus client the bridge consumes. Reconnect,
// QoS and TLS policy belong to the implementation, not to the bridge.
type Conn interface {
	Connect() error
	Subscribe(filter string, handler MessageHandler) error
	Unsubscribe(filter string) error
	Publish(topic string, payload string, retain bool) error
	Disconnect()
}

type BrokerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	ClientID string
	QoS      byte
}

type pahoConn struct {
	client mqtt.Client
	qos    byte
}

// NewPahoConn wraps an Eclipse Paho client behind the Conn contract.
func NewPahoConn(cfg BrokerConfig) Conn {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	return &pahoConn{client: mqtt.NewClient(opts), qos: cfg.QoS}
}

func (c *pahoConn) Connect() error {
	token := c.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect broker: %w", token.Error())
	}
	return nil
}

func (c *pahoConn) Subscribe(filter string, handler MessageHandler) error {
	token := c.client.Subscribe(filter, c.qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", filter, token.Error())
	}
	return nil
}

func (c *pahoConn) Unsubscribe(filter string) error {
	token := c.client.Unsubscribe(filter)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("unsubscribe %s: %w", filter, token.Error())
	}
	return nil
}

func (c *pahoConn) Publish(topic string, payload string, retain bool) error {
	token := c.client.Publish(topic, c.qos, retain, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

func (c *pahoConn) Disconnect() {
	c.client.Disconnect(250)
}
