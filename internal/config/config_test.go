package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigForTest(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfigForTest(t, `
mqtt:
  host: broker.example
  port: 8883
  username: remote
  password: hunter2
  topic_prefix: music/den
  qos: 1
player:
  volume: 40
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MQTT.Host != "broker.example" || cfg.MQTT.Port != 8883 {
		t.Fatalf("unexpected broker address: %s:%d", cfg.MQTT.Host, cfg.MQTT.Port)
	}
	if cfg.MQTT.TopicPrefix != "music/den" {
		t.Fatalf("unexpected topic prefix %q", cfg.MQTT.TopicPrefix)
	}
	if cfg.MQTT.QoS != 1 {
		t.Fatalf("unexpected qos %d", cfg.MQTT.QoS)
	}
	if cfg.Player.Volume != 40 {
		t.Fatalf("unexpected volume %d", cfg.Player.Volume)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Fatalf("unexpected log level %v", cfg.LogLevel())
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigForTest(t, "mqtt:\n  host: broker.example\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MQTT.Port != 1883 {
		t.Fatalf("expected default port, got %d", cfg.MQTT.Port)
	}
	if cfg.MQTT.TopicPrefix != "remo" {
		t.Fatalf("expected default topic prefix, got %q", cfg.MQTT.TopicPrefix)
	}
	if cfg.MQTT.ClientID != "remo" {
		t.Fatalf("expected default client id, got %q", cfg.MQTT.ClientID)
	}
	if cfg.Player.Volume != 80 {
		t.Fatalf("expected default volume, got %d", cfg.Player.Volume)
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Fatalf("expected default info level, got %v", cfg.LogLevel())
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected an error for a missing explicit config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("REMO_MQTT_HOST", "env.example")

	path := writeConfigForTest(t, "mqtt:\n  host: file.example\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MQTT.Host != "env.example" {
		t.Fatalf("expected env override, got %q", cfg.MQTT.Host)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{name: "bad port", contents: "mqtt:\n  port: 0\n"},
		{name: "bad qos", contents: "mqtt:\n  qos: 3\n"},
		{name: "empty prefix", contents: "mqtt:\n  topic_prefix: \"\"\n"},
		{name: "wildcard prefix", contents: "mqtt:\n  topic_prefix: \"music/+\"\n"},
		{name: "trailing slash prefix", contents: "mqtt:\n  topic_prefix: \"music/\"\n"},
		{name: "volume out of range", contents: "player:\n  volume: 120\n"},
		{name: "bad log level", contents: "logging:\n  level: loud\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigForTest(t, tc.contents)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation to fail")
			}
		})
	}
}
