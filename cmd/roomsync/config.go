package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/collabroom/roomsync/internal/session"
)

type fileConfig struct {
	Endpoint             string `toml:"endpoint"`
	SessionID            string `toml:"session_id"`
	ParticipantID        string `toml:"participant_id"`
	Token                string `toml:"token"`
	ConnectTimeout       string `toml:"connect_timeout"`
	AckTimeout           string `toml:"ack_timeout"`
	ReconnectInterval    string `toml:"reconnect_interval"`
	HeartbeatInterval    string `toml:"heartbeat_interval"`
	LatencyCheckInterval string `toml:"latency_check_interval"`
	MaxRetryAttempts     int    `toml:"max_retry_attempts"`
	QueueCapacity        int    `toml:"outbound_queue_capacity"`
	DedupCapacity        int    `toml:"deduplication_window_capacity"`
	LatencyWindow        int    `toml:"latency_sample_window_capacity"`
}

type clientConfig struct {
	Endpoint      string
	SessionID     string
	ParticipantID string
	Token         string
	Options       session.Options
}

func loadClientConfig(path string) (clientConfig, error) {
	cfg := clientConfig{Options: session.DefaultOptions()}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return clientConfig{}, fmt.Errorf("load roomsync config: %w", err)
	}

	cfg.Endpoint = strings.TrimSpace(raw.Endpoint)
	if cfg.Endpoint == "" {
		return clientConfig{}, fmt.Errorf("roomsync config: endpoint required")
	}
	cfg.SessionID = strings.TrimSpace(raw.SessionID)
	if cfg.SessionID == "" {
		return clientConfig{}, fmt.Errorf("roomsync config: session_id required")
	}
	cfg.ParticipantID = strings.TrimSpace(raw.ParticipantID)
	if cfg.ParticipantID == "" {
		return clientConfig{}, fmt.Errorf("roomsync config: participant_id required")
	}
	cfg.Token = strings.TrimSpace(raw.Token)

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"connect_timeout", raw.ConnectTimeout, &cfg.Options.ConnectTimeout},
		{"ack_timeout", raw.AckTimeout, &cfg.Options.AckTimeout},
		{"reconnect_interval", raw.ReconnectInterval, &cfg.Options.ReconnectInterval},
		{"heartbeat_interval", raw.HeartbeatInterval, &cfg.Options.HeartbeatInterval},
		{"latency_check_interval", raw.LatencyCheckInterval, &cfg.Options.LatencyCheckInterval},
	}
	for _, item := range durations {
		if !meta.IsDefined(item.key) {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(item.raw))
		if err != nil {
			return clientConfig{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		if d <= 0 {
			return clientConfig{}, fmt.Errorf("parse %s: must be positive", item.key)
		}
		*item.dst = d
	}

	if meta.IsDefined("max_retry_attempts") && raw.MaxRetryAttempts > 0 {
		cfg.Options.MaxRetryAttempts = raw.MaxRetryAttempts
	}
	if meta.IsDefined("outbound_queue_capacity") && raw.QueueCapacity > 0 {
		cfg.Options.QueueCapacity = raw.QueueCapacity
	}
	if meta.IsDefined("deduplication_window_capacity") && raw.DedupCapacity > 0 {
		cfg.Options.DedupCapacity = raw.DedupCapacity
	}
	if meta.IsDefined("latency_sample_window_capacity") && raw.LatencyWindow > 0 {
		cfg.Options.LatencyWindow = raw.LatencyWindow
	}

	return cfg, nil
}
