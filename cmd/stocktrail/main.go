package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/stocktrail/stocktrail/internal/clock"
	"github.com/stocktrail/stocktrail/internal/config"
	"github.com/stocktrail/stocktrail/internal/logger"
	"github.com/stocktrail/stocktrail/internal/migration"
	"github.com/stocktrail/stocktrail/internal/server"
	"github.com/stocktrail/stocktrail/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema and seed data before the server takes traffic.
		migration.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
