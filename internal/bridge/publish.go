package bridge

import (
	"log/slog"
	"strconv"

	"remo/internal/player"
)

// Outbound state topic suffixes.
const (
	topicState  = "sta"
	topicTrack  = "trk"
	topicVolume = "vol"
)

// EventPublisher turns player lifecycle events into outbound messages, one
// message per event. State topics are retained so late subscribers see the
// current values. It doubles as the facade's Listener.
type EventPublisher struct {
	conn   Conn
	prefix string
	log    *slog.Logger
}

func NewEventPublisher(conn Conn, prefix string, log *slog.Logger) *EventPublisher {
	return &EventPublisher{conn: conn, prefix: prefix, log: log}
}

func (p *EventPublisher) PublishState(state player.PlaybackState) {
	p.publish(topicState, string(state))
}

func (p *EventPublisher) PublishVolume(volume int) {
	p.publish(topicVolume, strconv.Itoa(volume))
}

func (p *EventPublisher) PlaybackStateChanged(_, newState player.PlaybackState) {
	p.PublishState(newState)
}

func (p *EventPublisher) TrackPlaybackStarted(track player.Track) {
	p.publish(topicTrack, DescribeTrack(track))
}

// TrackPlaybackEnded clears the now-playing display with an empty payload.
func (p *EventPublisher) TrackPlaybackEnded(player.Track, int) {
	p.publish(topicTrack, "")
}

func (p *EventPublisher) VolumeChanged(volume int) {
	p.PublishVolume(volume)
}

func (p *EventPublisher) StreamTitleChanged(title string) {
	p.publish(topicTrack, DescribeStream(title))
}

func (p *EventPublisher) publish(suffix, payload string) {
	topic := p.prefix + "/" + suffix
	if err := p.conn.Publish(topic, payload, true); err != nil {
		p.log.Warn("publish failed", "topic", topic, "error", err)
	}
}
