package main

import (
	"context"
	"log"

	"github.com/dkrasnov/skyportal/internal/config"
	"github.com/dkrasnov/skyportal/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
