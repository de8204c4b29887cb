package main

import (
	"hotelbooking/config"
	"hotelbooking/di"
	"hotelbooking/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
