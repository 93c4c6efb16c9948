package config

import (
    "errors"
    "fmt"
    "os"
    "strings"
    "time"

    "github.com/joho/godotenv"
    "github.com/spf13/viper"
)

const (
    EnvAPIURL = "VOISPARK_API_URL"
    EnvAPIKey = "VOISPARK_API_KEY"

    DefaultAPIURL = "https://api.voispark.com"
)

type API struct {
    URL            string `mapstructure:"url"`
    Key            string `mapstructure:"key"`
    TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (a API) Timeout() time.Duration { return time.Duration(a.TimeoutSeconds) * time.Second }

// Server is the optional network listener shared by HTTP and WebSocket MCP.
type Server struct {
    Enabled bool   `mapstructure:"enabled"`
    Host    string `mapstructure:"host"`
    Port    int    `mapstructure:"port"`
}

type WebSocket struct {
    Enabled    bool   `mapstructure:"enabled"`
    PathPrefix string `mapstructure:"path_prefix"`
}

type Log struct {
    Level string `mapstructure:"level"` // debug, info, warn, error
}

type Config struct {
    API       API       `mapstructure:"api"`
    Server    Server    `mapstructure:"server"`
    WebSocket WebSocket `mapstructure:"websocket"`
    Log       Log       `mapstructure:"log"`
}

// Load reads .env from the working directory, then the optional JSON file at
// path, then overrides the API section from the environment and fills defaults.
// A missing .env is not an error; a missing config file is, when path is set.
func Load(path string) (Config, error) {
    var c Config
    if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
        return c, fmt.Errorf("load .env: %w", err)
    }

    v := viper.New()
    v.SetDefault("api.url", DefaultAPIURL)
    v.SetDefault("api.timeout_seconds", 60)
    v.SetDefault("server.host", "127.0.0.1")
    v.SetDefault("server.port", 8080)
    v.SetDefault("websocket.path_prefix", "/ws")
    v.SetDefault("log.level", "info")
    // empty variables count as unset
    _ = v.BindEnv("api.url", EnvAPIURL)
    _ = v.BindEnv("api.key", EnvAPIKey)

    if path != "" {
        v.SetConfigFile(path)
        v.SetConfigType("json")
        if err := v.ReadInConfig(); err != nil { return c, fmt.Errorf("read config: %w", err) }
    }
    if err := v.Unmarshal(&c); err != nil { return c, fmt.Errorf("parse config: %w", err) }
    c.normalize()
    return c, nil
}

func (c *Config) normalize() {
    c.API.URL = strings.TrimRight(c.API.URL, "/")
    if c.API.URL == "" { c.API.URL = DefaultAPIURL }
    if c.API.TimeoutSeconds <= 0 { c.API.TimeoutSeconds = 60 }
    if c.Server.Host == "" { c.Server.Host = "127.0.0.1" }
    if c.Server.Port == 0 { c.Server.Port = 8080 }
    c.WebSocket.PathPrefix = "/" + strings.Trim(c.WebSocket.PathPrefix, "/")
    if c.WebSocket.PathPrefix == "/" { c.WebSocket.PathPrefix = "/ws" }
    if c.Log.Level == "" { c.Log.Level = "info" }
}

// Listening reports whether any network listener has to be started.
func (c Config) Listening() bool { return c.Server.Enabled || c.WebSocket.Enabled }
