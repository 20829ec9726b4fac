package kross

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const TenantPlaceholder = "{tenant}"

type Config struct {
	// BaseUrlTemplate must contain {tenant}, it is replaced by the tenant id.
	BaseUrlTemplate  string
	LoginPath        string
	ReservationsPath string
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool

	// RequestsPerSecond paces outgoing requests, 0 disables pacing.
	RequestsPerSecond float64
}

func DefaultConfig() Config {
	return Config{
		BaseUrlTemplate:  "https://{tenant}.krossbooking.com",
		LoginPath:        "/login/v2",
		ReservationsPath: "/v2/reservations",
		Timeout:          time.Second * 30,
		UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		CloudflareBypass: true,
	}
}

// withDefaults fills every zero valued string/duration from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BaseUrlTemplate == "" {
		c.BaseUrlTemplate = def.BaseUrlTemplate
	}
	if c.LoginPath == "" {
		c.LoginPath = def.LoginPath
	}
	if c.ReservationsPath == "" {
		c.ReservationsPath = def.ReservationsPath
	}
	if c.Timeout == 0 {
		c.Timeout = def.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	return c
}

func (c Config) validate() error {
	if !strings.Contains(c.BaseUrlTemplate, TenantPlaceholder) {
		return fmt.Errorf(
			"%w: base url template %q does not contain %s",
			ErrConfiguration, c.BaseUrlTemplate, TenantPlaceholder,
		)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: negative requests per second", ErrConfiguration)
	}
	return nil
}

// tenants end up as a subdomain
var tenantRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// ValidateTenant checks that the tenant can be used as the hotel subdomain.
func ValidateTenant(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("%w: tenant must be a non-empty string", ErrConfiguration)
	}
	if !tenantRegex.MatchString(tenant) {
		return fmt.Errorf("%w: invalid tenant %q", ErrConfiguration, tenant)
	}
	return nil
}

func (c Config) baseUrl(tenant string) (string, error) {
	err := ValidateTenant(tenant)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(c.BaseUrlTemplate, TenantPlaceholder, tenant), nil
}
