package commands

import (
	"context"
	"errors"
	"fmt"
	"krossbooking/internal/components/chrono"
	"krossbooking/lib/configutil"
	"krossbooking/lib/restyutil"
	"krossbooking/lib/scrapers/kross"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	envHotel    = "KROSS_HOTEL"
	envUsername = "KROSS_USERNAME"
	envPassword = "KROSS_PASSWORD"

	defaultTimezone = "Europe/Rome"
)

type Config struct {
	Hotel    string `json:"hotel"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Timezone of the hotel, used to compute "today" for relative date
	// filters, defaults to Europe/Rome.
	Timezone string `json:"timezone"`

	BaseUrlTemplate         string  `json:"base_url_template"`
	TimeoutSeconds          int     `json:"timeout_seconds"`
	RequestsPerSecond       float64 `json:"requests_per_second"`
	DisableCloudflareBypass bool    `json:"disable_cloudflare_bypass"`
}

// loadConfig reads the json5 config (and its .local override) if present,
// then applies KROSS_* variables from the environment or a .env file.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if os.IsNotExist(err) {
		slog.Debug("config file not found, relying on the environment", "path", path)
	}

	err = godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	if hotel, ok := os.LookupEnv(envHotel); ok {
		cfg.Hotel = hotel
	}
	if username, ok := os.LookupEnv(envUsername); ok {
		cfg.Username = username
	}
	if password, ok := os.LookupEnv(envPassword); ok {
		cfg.Password = password
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errlist []error
	if c.Hotel == "" {
		errlist = append(errlist, fmt.Errorf("hotel is required (config or %s)", envHotel))
	}
	if c.Username == "" {
		errlist = append(errlist, fmt.Errorf("username is required (config or %s)", envUsername))
	}
	if c.Password == "" {
		errlist = append(errlist, fmt.Errorf("password is required (config or %s)", envPassword))
	}
	if c.TimeoutSeconds < 0 {
		errlist = append(errlist, fmt.Errorf("timeout_seconds must not be negative"))
	}
	return errors.Join(errlist...)
}

func (c Config) clientConfig() *kross.Config {
	config := kross.DefaultConfig()
	if c.BaseUrlTemplate != "" {
		config.BaseUrlTemplate = c.BaseUrlTemplate
	}
	if c.TimeoutSeconds > 0 {
		config.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	config.RequestsPerSecond = c.RequestsPerSecond
	config.CloudflareBypass = !c.DisableCloudflareBypass
	return &config
}

func (c Config) clock() (chrono.API, error) {
	timezone := c.Timezone
	if timezone == "" {
		timezone = defaultTimezone
	}
	clock, err := chrono.NewStandardImpl(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	return clock, nil
}

// login returns a client that is logged into the configured hotel, callers
// must Close it.
func login(ctx context.Context, cfg Config) (*kross.Client, error) {
	opts := kross.Options{
		Tenant: cfg.Hotel,
		Config: cfg.clientConfig(),
	}
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return nil, fmt.Errorf("create dump directory: %w", err)
		}
		opts.Dump = output
	}

	client, err := kross.NewClient(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("logging in", "hotel", cfg.Hotel, "username", cfg.Username)
	err = client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
