package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	jwtValue    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	authValue   = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)
	dsnPassword = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`)
)

// secretFields are attribute and struct field names whose values never reach a log sink.
// Client contact details are included: quotes are logged by ID, never by customer.
var secretFields = []string{
	"password", "secret", "token", "apiKey", "apikey", "api_key",
	"accessToken", "access_token", "refreshToken", "refresh_token",
	"credential", "credentials", "authorization", "cookie", "session",
	"dsn", "Email", "email", "phone", "passport",
}

// DefaultRedactOptions returns the masq rules applied to every handler.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(secretFields)+5)

	for _, name := range secretFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(jwtValue),
		masq.WithRegex(authValue),
		masq.WithRegex(dsnPassword),
	)
}

// NewReplaceAttr builds an slog ReplaceAttr that applies DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
