//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/amaumene/videosync/internal/config"
)

func initializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(providerSet)
	return nil, nil, nil
}
