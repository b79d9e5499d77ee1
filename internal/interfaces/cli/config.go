package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config configuración de la CLI leída de variables ASSETA_*.
type Config struct {
	APIURL         string `envconfig:"API_URL" default:"http://127.0.0.1:5000"`
	TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"10"`
	Token          string `envconfig:"TOKEN"`
	TokenFile      string `envconfig:"TOKEN_FILE"`
	AMQPURL        string `envconfig:"AMQP_URL"`
	Exchange       string `envconfig:"EVENTS_EXCHANGE" default:"asseta.events"`
}

// LoadConfig procesa el entorno con prefijo ASSETA.
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("asseta", &c); err != nil {
		return c, err
	}
	if c.TokenFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.TokenFile = filepath.Join(home, ".asseta_token")
		}
	}
	return c, nil
}

// Timeout timeout por petición.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
