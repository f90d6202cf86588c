//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Core state
		ProvideStore,
		ProvideGates,

		// Upstream plumbing
		ProvideHTTPClient,
		ProvideSources,
		ProvideBytesCache,
		ProvidePublisher,

		// Fan-out and scheduling
		ProvideHub,
		ProvideRefresher,

		// Surfaces
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
