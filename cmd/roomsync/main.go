package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/collabroom/roomsync/internal/observability"
	"github.com/collabroom/roomsync/internal/reach"
	"github.com/collabroom/roomsync/internal/session"
	"github.com/collabroom/roomsync/internal/transport"
	"github.com/collabroom/roomsync/internal/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "roomsync: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "roomsync.toml", "path to the client config file")
	flag.Parse()

	logger := observability.InitLogger("roomsync")

	cfg, err := loadClientConfig(*configPath)
	if err != nil {
		return err
	}

	engine, err := session.NewEngine(session.EngineConfig{
		Dialer:  &transport.WebsocketDialer{},
		Monitor: reach.AlwaysUp(),
		Logger:  logger,
		Options: cfg.Options,
		Callbacks: session.Callbacks{
			OnMessage: func(msg wire.Message) {
				logger.Info().
					Str("type", string(msg.Type)).
					Str("sender", msg.SenderID).
					Uint64("seq", msg.SequenceNumber).
					Int("bytes", len(msg.Payload)).
					Msg("message")
			},
			OnDeliveryFailure: func(msg wire.Message) {
				logger.Error().
					Str("type", string(msg.Type)).
					Uint64("seq", msg.SequenceNumber).
					Msg("delivery failed")
			},
			OnConnectionStatusChange: func(state session.State) {
				logger.Info().Stringer("state", state).Msg("connection status")
			},
			OnQualityChange: func(quality session.Quality) {
				logger.Info().Stringer("quality", quality).Msg("connection quality")
			},
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Connect(ctx, cfg.Endpoint, cfg.SessionID, cfg.ParticipantID, cfg.Token); err != nil {
		return err
	}
	defer engine.Disconnect()

	// Each stdin line is published to the session as a context update.
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			stats := engine.Statistics()
			logger.Info().
				Uint64("sent", stats.MessagesSent).
				Uint64("received", stats.MessagesReceived).
				Uint64("reconnects", stats.ReconnectAttempts).
				Stringer("quality", stats.Quality).
				Msg("shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return nil
			}
			payload, err := json.Marshal(map[string]string{"text": line})
			if err != nil {
				logger.Warn().Err(err).Msg("encode input")
				continue
			}
			if err := engine.Send(wire.TypeContextUpdate, payload, true); err != nil {
				logger.Warn().Err(err).Msg("send rejected")
			}
		}
	}
}
