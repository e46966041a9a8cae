// Package config decodes the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ovaphlow/pitchfork/service-adboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/utilities"
)

// App is the full service configuration.
type App struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:"127.0.0.1:9000"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"5s"`
	// DropAllTables rolls every migration back before migrating up.
	DropAllTables bool `envconfig:"DROP_ALL_TABLES" default:"false"`
	BcryptCost    int  `envconfig:"BCRYPT_COST" default:"12"`

	Database database.Config  `envconfig:"DATABASE"`
	Log      utilities.Config `envconfig:"LOG"`
}

// Load reads App from the process environment.
func Load() (App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return App{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
