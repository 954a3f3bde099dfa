// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package paho hands finalized connect options to the Eclipse Paho MQTT
// client. Options are read exclusively through their derived boundary.
package paho

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/absmach/mqttopts/client"
	mqtttls "github.com/absmach/mqttopts/pkg/tls"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ClientOptions maps opts onto Paho client options for the given servers.
// Servers without a scheme get tcp:// or, when SSL options are present, ssl://.
func ClientOptions(opts *client.ConnectOptions, clientID string, servers ...string) (*mqtt.ClientOptions, error) {
	if len(servers) == 0 {
		return nil, ErrNoServers
	}
	b := opts.Boundary()

	po := mqtt.NewClientOptions().
		SetClientID(clientID).
		SetCleanSession(b.CleanSession != 0).
		SetKeepAlive(secs(b.KeepAliveInterval)).
		SetConnectTimeout(secs(b.ConnectTimeout)).
		SetAutoReconnect(b.AutomaticReconnect != 0)

	if b.MaxInflight > 0 {
		po.SetMaxResumePubInFlight(int(b.MaxInflight))
	}
	// Paho starts its reconnect backoff at one second and has no setting for
	// the minimum, so MinRetryInterval is not mapped. With automatic reconnect
	// on, failed initial connects are retried every RetryInterval as well.
	po.SetConnectRetryInterval(secs(b.RetryInterval))
	if b.AutomaticReconnect != 0 {
		po.SetConnectRetry(true)
		po.SetMaxReconnectInterval(secs(b.MaxRetryInterval))
	}
	if b.Username != nil {
		po.SetUsername(client.GoString(b.Username))
	}
	if b.Password != nil {
		po.SetPassword(client.GoString(b.Password))
	}
	if w := b.Will; w != nil {
		po.SetBinaryWill(client.GoString(w.TopicName), client.GoBytes(w.Payload.Data, w.Payload.Len), byte(w.QoS), w.Retained != 0)
	}

	scheme := "tcp://"
	if s := b.SSL; s != nil {
		cfg, err := mqtttls.LoadClientConfig(&mqtttls.Config{
			CAFile:       client.GoString(s.TrustStore),
			CertFile:     client.GoString(s.KeyStore),
			KeyFile:      client.GoString(s.PrivateKey),
			KeyPassword:  client.GoString(s.PrivateKeyPassword),
			CipherSuites: client.GoString(s.EnabledCipherSuites),
			VerifyServer: s.EnableServerCertAuth != 0,
		})
		if err != nil {
			return nil, err
		}
		po.SetTLSConfig(cfg)
		scheme = "ssl://"
	}
	for _, s := range servers {
		if !strings.Contains(s, "://") {
			s = scheme + s
		}
		po.AddBroker(s)
	}
	return po, nil
}

// Connect creates a Paho client from opts and waits for the connection to be
// established or ctx to be done.
func Connect(ctx context.Context, opts *client.ConnectOptions, clientID string, logger *slog.Logger, servers ...string) (mqtt.Client, error) {
	po, err := ClientOptions(opts, clientID, servers...)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	po.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("Connection lost", "client_id", clientID, "error", err)
	})
	po.SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		logger.Info("Reconnecting", "client_id", clientID)
	})

	c := mqtt.NewClient(po)
	logger.Debug("Connecting", "client_id", clientID, "servers", servers, "tls", opts.SSL() != nil)
	tok := c.Connect()
	select {
	case <-tok.Done():
		if err := tok.Error(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConnectFailed, err)
		}
	case <-ctx.Done():
		c.Disconnect(0)
		return nil, ctx.Err()
	}
	logger.Info("Connected", "client_id", clientID)
	return c, nil
}

func secs(n int32) time.Duration {
	return time.Duration(n) * time.Second
}
