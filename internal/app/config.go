package app

import (
	"github.com/verdantstack/farmops-backend/internal/platform/envutil"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	GridProfilePath string
	FrontendOrigins string
	EventsEnabled   bool
	ServiceName     string
	Environment     string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:            envutil.GetEnv("PORT", "8080", log),
		GridProfilePath: envutil.GetEnv("GRID_PROFILE_PATH", "", log),
		FrontendOrigins: envutil.GetEnv("FRONTEND_ORIGINS", "", log),
		EventsEnabled:   envutil.GetEnvAsBool("EVENTS_ENABLED", false, log),
		ServiceName:     envutil.GetEnv("SERVICE_NAME", "farmops-backend", log),
		Environment:     envutil.GetEnv("ENVIRONMENT", "development", log),
	}
}
