package kross

import (
	"context"
	"fmt"
	"krossbooking/internal/components/telemetry"
	"krossbooking/lib/restyutil"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_set_tenant = "client.set-tenant"
	report_client_login      = "client.login"
	report_client_pacing     = "client.pacing"
)

// Client is a session against a single Krossbooking tenant. It keeps the
// cookies of its login and is not meant to be shared between goroutines.
type Client struct {
	config Config
	http   *resty.Client
	tel    telemetry.API

	tenant        string
	baseUrl       string
	authenticated bool
}

type Options struct {
	// Tenant is optional, it can be set later with SetTenant.
	Tenant string
	// Config defaults to DefaultConfig(), zero fields are filled from it.
	Config *Config
	// Telemetry defaults to telemetry.SlogAPI.
	Telemetry telemetry.API
	// Dump receives every HTTP exchange when not nil.
	Dump restyutil.InstrumentOutput
}

func NewClient(opts Options) (*Client, error) {
	config := DefaultConfig()
	if opts.Config != nil {
		config = opts.Config.withDefaults()
	}
	err := config.validate()
	if err != nil {
		return nil, err
	}

	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	tel = telemetry.NewScopedAPI("kross", tel)

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if config.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", config.UserAgent)
	httpClient.SetTimeout(config.Timeout)

	if config.RequestsPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			err := limiter.Wait(req.Context())
			if err != nil {
				tel.ReportWarning(report_client_pacing, err)
			}
			return err
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	if opts.Dump != nil {
		restyutil.InstrumentClient(httpClient, tracer, opts.Dump)
	}

	c := &Client{
		config: config,
		http:   httpClient,
		tel:    tel,
	}
	if opts.Tenant != "" {
		err = c.SetTenant(opts.Tenant)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetTenant points the client at another hotel, the client must login again
// afterwards.
func (c *Client) SetTenant(tenant string) error {
	base, err := c.config.baseUrl(tenant)
	if err != nil {
		c.tel.ReportWarning(report_client_set_tenant, err)
		return err
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Hostname() == "" {
		err = fmt.Errorf("%w: invalid base url %q", ErrConfiguration, base)
		c.tel.ReportBroken(report_client_set_tenant, err)
		return err
	}

	c.http.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	c.tenant = tenant
	c.baseUrl = base
	c.authenticated = false
	return nil
}

func (c *Client) Tenant() string {
	return c.tenant
}

// BaseUrl returns the root url of the current tenant.
func (c *Client) BaseUrl() (string, error) {
	if c.baseUrl == "" {
		return "", fmt.Errorf("%w: tenant must be set before making requests", ErrConfiguration)
	}
	return c.baseUrl, nil
}

func (c *Client) Authenticated() bool {
	return c.authenticated
}

// Login fetches the login page to receive the session cookies, then posts the
// credentials. Only a 200 response counts as a successful login.
func (c *Client) Login(ctx context.Context, username, password string) error {
	base, err := c.BaseUrl()
	if err != nil {
		return err
	}
	loginUrl := base + c.config.LoginPath

	loginError := func(err error) error {
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}

	c.authenticated = false

	_, err = c.http.R().
		SetContext(ctx).
		Get(loginUrl)
	if err != nil {
		c.tel.ReportBroken(
			report_client_login,
			fmt.Errorf("login page request: %w", err),
		)
		return loginError(err)
	}
	c.tel.ReportDebug(report_client_login, "initial cookies", c.cookieCount(loginUrl))

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
		}).
		Post(loginUrl)
	if err != nil {
		c.tel.ReportBroken(
			report_client_login,
			fmt.Errorf("login request: %w", err),
		)
		return loginError(err)
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("login failed with status code: %d", res.StatusCode())
		c.tel.ReportWarning(report_client_login, err)
		return loginError(err)
	}

	c.authenticated = true
	c.tel.ReportDebug(report_client_login, "login successful", c.cookieCount(loginUrl))
	return nil
}

func (c *Client) cookieCount(rawUrl string) int {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return 0
	}
	return len(c.http.GetClient().Jar.Cookies(parsed))
}

func (c *Client) checkAuthentication() error {
	if !c.authenticated {
		return fmt.Errorf("%w: you must login before making requests", ErrLogin)
	}
	return nil
}

// Close releases the connections held by the client.
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}
