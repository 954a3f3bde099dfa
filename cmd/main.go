// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/absmach/mqttopts/client"
	"github.com/absmach/mqttopts/config"
	"github.com/absmach/mqttopts/paho"
	mqtttls "github.com/absmach/mqttopts/pkg/tls"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	connect := flag.Bool("connect", false, "Connect to the configured brokers and disconnect")
	timeout := flag.Duration("timeout", 30*time.Second, "Time allowed for the connect attempt")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	opts, clientID, err := prepare(cfg, logger)
	if err != nil {
		slog.Error("Failed to prepare connect options", "error", err)
		os.Exit(1)
	}
	defer opts.Release()

	if !*connect {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	c, err := paho.Connect(ctx, opts, clientID, logger, cfg.Broker.Servers...)
	if err != nil {
		slog.Error("Failed to connect", "servers", cfg.Broker.Servers, "error", err)
		os.Exit(1)
	}
	c.Disconnect(250)
	slog.Info("Disconnected", "client_id", clientID)
}

// newLogger builds the process logger from the log section of the profile.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	logLevel := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})
	}
	return slog.New(handler)
}

// prepare finalizes the options described by cfg, checks the TLS files and
// encodes the CONNECT packet once. The caller owns the returned options.
func prepare(cfg *config.Config, logger *slog.Logger) (*client.ConnectOptions, string, error) {
	builder, err := cfg.Builder()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build connect options: %w", err)
	}
	opts, err := builder.Logger(logger).Finalize()
	if err != nil {
		return nil, "", fmt.Errorf("failed to finalize connect options: %w", err)
	}

	clientID := cfg.ClientID()
	logOptions(logger, opts)

	if ssl := opts.SSL(); ssl != nil {
		tlsCfg, err := ssl.TLSConfig()
		if err != nil {
			opts.Release()
			return nil, "", fmt.Errorf("failed to load TLS configuration: %w", err)
		}
		logger.Info("Transport security", "status", mqtttls.SecurityStatus(tlsCfg))
	}

	pkt, err := opts.ConnectPacket(clientID)
	if err != nil {
		opts.Release()
		return nil, "", fmt.Errorf("failed to build CONNECT packet: %w", err)
	}
	data, err := pkt.Encode()
	if err != nil {
		opts.Release()
		return nil, "", fmt.Errorf("failed to encode CONNECT packet: %w", err)
	}
	logger.Info("CONNECT packet encoded", "client_id", clientID, "bytes", len(data))
	return opts, clientID, nil
}

func logOptions(logger *slog.Logger, opts *client.ConnectOptions) {
	b := opts.Boundary()
	logger.Info("Connect options",
		"struct_id", string(b.StructID[:]),
		"struct_version", b.StructVersion,
		"clean_session", b.CleanSession != 0,
		"keep_alive", b.KeepAliveInterval,
		"max_inflight", b.MaxInflight,
		"connect_timeout", b.ConnectTimeout,
		"retry_interval", b.RetryInterval,
		"username", client.GoString(b.Username),
		"password_set", b.Password != nil,
		"will", b.Will != nil,
		"ssl", b.SSL != nil,
		"automatic_reconnect", b.AutomaticReconnect != 0,
		"min_retry_interval", b.MinRetryInterval,
		"max_retry_interval", b.MaxRetryInterval)
}
