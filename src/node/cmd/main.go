package main

import (
	"os"

	"github.com/viluon/ring-election/src/common/logger"
	"github.com/viluon/ring-election/src/node/config"
	"github.com/viluon/ring-election/src/node/internal/server"
)

func main() {

	var configPath string
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	conf, err := config.InitConfig(configPath)
	if err != nil {
		logger.GetLogger().Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(logger.LoggerEnvironment(conf.LogLevel))
	defer logger.Sync()

	logger.Logger.Infof(conf.String())

	server := server.InitServer(conf)
	if err := server.Run(); err != nil {
		logger.Logger.Fatalf("Node failed: %v", err)
	}
}
