package main

import (
	"os"

	erpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/joho/godotenv"
	"github.com/sisu-network/lib/log"

	"github.com/argus-network/argus/bridge"
	"github.com/argus-network/argus/chains"
	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/core"
	"github.com/argus-network/argus/database"
	"github.com/argus-network/argus/server"
	"github.com/argus-network/argus/telemetry"
)

func initialize() (*config.Argus, database.Database) {
	err := godotenv.Load()
	if err != nil {
		panic(err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./argus.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	db := database.NewDb(&cfg)
	if err := db.Init(); err != nil {
		panic(err)
	}

	return &cfg, db
}

func main() {
	cfg, db := initialize()

	sink := telemetry.NewDbSink(cfg.TelemetryCapacity, db)

	// The default binary has no wallet attached, so switch requests are
	// acknowledged locally.
	var switcher chains.Switcher = chains.NopSwitcher{}
	bridgeClient := bridge.NewHttpClient(cfg.BridgeUrl)

	processor := core.NewProcessor(cfg, db, switcher, bridgeClient, sink)
	processor.Start()

	handler := erpc.NewServer()
	if err := handler.RegisterName("argus", server.NewApi(processor)); err != nil {
		panic(err)
	}

	s := server.NewServer(handler, cfg.ServerPort)

	log.Info("Argus is ready")
	s.Run()
}
