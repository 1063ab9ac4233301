package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
	exporters  = []string{"stdout", "otlp"}
)

// problems collects every violation so Validate can report them together.
type problems []error

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

func (p *problems) oneOf(key, got string, allowed []string) {
	p.check(slices.Contains(allowed, got), "%s must be one of: %s; got %q", key, strings.Join(allowed, ", "), got)
}

// Validate reports every invalid setting at once, joined with errors.Join.
func (c *Config) Validate() error {
	var p problems
	c.Server.validate(&p)
	c.Log.validate(&p)
	c.Auth.validate(&p)
	c.Client.validate(&p)
	c.Telemetry.validate(&p)
	return errors.Join(p...)
}

func (s *ServerConfig) validate(p *problems) {
	p.check(s.Port >= 1 && s.Port <= 65535, "server.port must be between 1 and 65535, got %d", s.Port)
	p.check(s.ReadTimeout > 0, "server.read_timeout must be positive")
	p.check(s.WriteTimeout > 0, "server.write_timeout must be positive")

	// The prefix is joined with "/{id}" and friends, so a trailing slash
	// would produce "//" routes.
	prefixOK := s.RoutePrefix == "" ||
		(strings.HasPrefix(s.RoutePrefix, "/") && !strings.HasSuffix(s.RoutePrefix, "/"))
	p.check(prefixOK, "server.route_prefix must start and not end with '/', got %q", s.RoutePrefix)
}

func (l *LogConfig) validate(p *problems) {
	p.oneOf("log.level", l.Level, logLevels)
	p.oneOf("log.format", l.Format, logFormats)
}

func (a *AuthConfig) validate(p *problems) {
	if a.Enabled {
		p.check(strings.TrimSpace(a.Secret) != "", "auth.secret must not be empty when auth is enabled")
	}
}

func (cl *ClientConfig) validate(p *problems) {
	p.check(cl.BaseURL != "", "client.base_url must not be empty")
	p.check(cl.Timeout > 0, "client.timeout must be positive")
	p.check(cl.Retry.MaxAttempts >= 1, "client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts)
	p.check(cl.Retry.Multiplier > 0, "client.retry.multiplier must be positive, got %g", cl.Retry.Multiplier)
	p.check(cl.CircuitBreaker.MaxFailures >= 1,
		"client.circuit_breaker.max_failures must be >= 1, got %d", cl.CircuitBreaker.MaxFailures)

	rl := cl.RateLimit
	p.check(rl.RequestsPerSecond >= 0,
		"client.rate_limit.requests_per_second must not be negative, got %g", rl.RequestsPerSecond)
	if rl.RequestsPerSecond > 0 {
		p.check(rl.BurstSize >= 1, "client.rate_limit.burst_size must be >= 1, got %d", rl.BurstSize)
	}
}

func (t *TelemetryConfig) validate(p *problems) {
	if !t.Enabled {
		return
	}
	p.check(strings.TrimSpace(t.ServiceName) != "",
		"telemetry.service_name must not be empty when telemetry is enabled")
	p.oneOf("telemetry.exporter", t.Exporter, exporters)
	if t.Exporter == "otlp" {
		p.check(t.Endpoint != "", "telemetry.endpoint must not be empty when exporter is otlp")
	}
}
