// Package origin provides a cross-site request forgery gate that checks a
// request's declared Origin against the hosts the process is serving. It
// runs before any token or authentication check on state-mutating routes.
package origin

import (
	"errors"
	"net/url"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrOriginMismatch is returned to the error handler when the Origin host
// is not among the acceptable hosts.
var ErrOriginMismatch = errors.New("request origin does not match serving host")

// DefaultForwardedHostHeader is where proxies record the original host.
const DefaultForwardedHostHeader = "X-Forwarded-Host"

// Config defines the configuration for the origin middleware
type Config struct {
	// Skip defines a function to skip middleware
	Skip func(*fiber.Ctx) bool

	// Strict rejects requests without an Origin header and requests for
	// which no acceptable host can be established. The default keeps the
	// historical permissive behavior so non-browser clients, which send
	// no Origin, pass through.
	Strict bool

	// ForwardedHostHeader names the header carrying comma separated
	// forwarded hosts
	ForwardedHostHeader string

	// SafeMethods defines HTTP methods that don't mutate state
	SafeMethods []string

	// ErrorHandler defines the error handler
	ErrorHandler fiber.ErrorHandler
}

// New creates the origin middleware
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		if slices.Contains(cfg.SafeMethods, strings.ToUpper(c.Method())) {
			return c.Next()
		}

		if !requestAllowed(c, cfg) {
			return cfg.ErrorHandler(c, ErrOriginMismatch)
		}

		return c.Next()
	}
}

// IsSameOrigin reports whether the request's declared origin matches the
// serving host, using the default header set.
func IsSameOrigin(c *fiber.Ctx) bool {
	return requestAllowed(c, configDefault())
}

func requestAllowed(c *fiber.Ctx, cfg Config) bool {
	return SameOrigin(
		c.Get(fiber.HeaderOrigin),
		string(c.Request().Host()),
		c.Get(cfg.ForwardedHostHeader),
		cfg.Strict,
	)
}

// SameOrigin is the pure decision function behind the middleware. origin
// is the Origin header value, host the Host header, and forwarded the
// comma separated forwarded-host list.
func SameOrigin(origin, host, forwarded string, strict bool) bool {
	if origin == "" {
		return !strict
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hosts := acceptableHosts(host, forwarded)
	if len(hosts) == 0 {
		return !strict
	}

	return slices.Contains(hosts, normalizeHost(parsed.Host))
}

func acceptableHosts(host, forwarded string) []string {
	hosts := make([]string, 0, 4)
	if host = normalizeHost(host); host != "" {
		hosts = append(hosts, host)
	}
	for _, fwd := range strings.Split(forwarded, ",") {
		if fwd = normalizeHost(fwd); fwd != "" {
			hosts = append(hosts, fwd)
		}
	}
	return hosts
}

func normalizeHost(host string) string {
	return strings.ToLower(strings.TrimSpace(host))
}

func configDefault(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ForwardedHostHeader == "" {
		cfg.ForwardedHostHeader = DefaultForwardedHostHeader
	}

	if cfg.SafeMethods == nil {
		cfg.SafeMethods = []string{
			fiber.MethodGet,
			fiber.MethodHead,
			fiber.MethodOptions,
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusForbidden).SendString("cross-origin request rejected")
		}
	}

	return cfg
}
