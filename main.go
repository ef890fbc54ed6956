package main

import (
	"github.com/campuslink/portal_service/config"
	"github.com/campuslink/portal_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
