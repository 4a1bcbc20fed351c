package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/vladsec/secblog"
)

func main() {
	// Optional; deployments usually set real environment variables.
	_ = godotenv.Load()

	cfg, err := secblog.ConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	app := secblog.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
