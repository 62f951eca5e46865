package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pixelpasture/unicornshop/internal/clock"
	"github.com/pixelpasture/unicornshop/internal/config"
	"github.com/pixelpasture/unicornshop/internal/migration"
	"github.com/pixelpasture/unicornshop/internal/observability"
	"github.com/pixelpasture/unicornshop/internal/payment"
	"github.com/pixelpasture/unicornshop/internal/ratelimit"
	"github.com/pixelpasture/unicornshop/internal/server"
	"github.com/pixelpasture/unicornshop/internal/stats"
	"github.com/pixelpasture/unicornshop/internal/unicorn"
	"github.com/pixelpasture/unicornshop/pkg/db"
	"github.com/pixelpasture/unicornshop/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,

		// Functional domains
		unicorn.Module,
		payment.Module,
		stats.Module,

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
