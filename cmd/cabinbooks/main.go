package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/cabinworks/cabinbooks/internal/clock"
	"github.com/cabinworks/cabinbooks/internal/config"
	"github.com/cabinworks/cabinbooks/internal/events"
	"github.com/cabinworks/cabinbooks/internal/observability"
	"github.com/cabinworks/cabinbooks/internal/seed"
	"github.com/cabinworks/cabinbooks/internal/server"
	"github.com/cabinworks/cabinbooks/internal/storage"
	"github.com/cabinworks/cabinbooks/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		storage.Module,
		clock.Module,
		events.Module,
		server.Module,
		seed.Module,
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
