package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders lists the lowercase header names that carry credentials.
// The HTTP middleware drops their values before logging headers, and the
// handler-level redactor below masks attributes with the same names.
var SensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"x-api-key":     true,
}

// sensitiveFields are attribute keys masked wherever they appear, including
// the auth.secret and client.token config values.
var sensitiveFields = []string{"password", "secret", "token"}

var (
	// bearerPattern catches "Bearer <token>" inside free text.
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

	// jwtPattern catches bare compact JWTs. Each segment needs ten or more
	// characters so dotted version strings are left alone.
	jwtPattern = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)
)

// newRedactAttr builds the slog ReplaceAttr hook used by New.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveHeaders)+len(sensitiveFields)+3)

	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldPrefix("secret_"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
	)

	return masq.New(opts...)
}
