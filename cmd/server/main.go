package main

import (
	"log"

	_ "tasktrack/docs"
	"tasktrack/internal/config"
	"tasktrack/internal/server"
)

// @title           Task Tracker API
// @version         1.0
// @description     Single-user task tracking service.

// @host      localhost:8080
// @BasePath  /

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
