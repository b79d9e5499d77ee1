package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.HTTP.Addr())
	assert.Equal(t, StoreMongo, cfg.Store.Driver)
	assert.Equal(t, "Asseta", cfg.Mongo.Database)
	assert.False(t, cfg.JWT.Enabled())
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Console.APIBase)
	assert.Equal(t, "@daily", cfg.RecycleBin.PurgeCron)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "8088")
	v.Set("STORE_DRIVER", "Memory")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("AUTH_REQUIRED", "true")
	v.Set("CACHE_TTL_SECONDS", "30")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.HTTP.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.True(t, cfg.JWT.AuthRequired)
	assert.Equal(t, "30s", cfg.Cache.TTL().String())
}

func TestFromViper_Invalidos(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "sqlite")
	_, err := fromViper(v)
	require.Error(t, err)

	v = viper.New()
	v.Set("AUTH_REQUIRED", "true")
	_, err = fromViper(v)
	require.Error(t, err)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "asseta", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/asseta?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
