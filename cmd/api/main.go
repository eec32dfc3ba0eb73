package main

import (
	"log"

	"github.com/joho/godotenv"

	"agora/internal/config"
	"agora/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	app := ui.NewApp(ui.Config{
		Port:          cfg.Server.Port,
		DefaultParams: cfg.Params(),
	})

	log.Printf("Starting analysis API on http://localhost:%s", cfg.Server.Port)
	log.Fatal(app.Start())
}
