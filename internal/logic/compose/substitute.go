package compose

import (
	"context"
	"log/slog"
	"regexp"
)

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// Substitute replaces ${KEY} and ${KEY:-default} with values from vars.
// A missing key falls back to the default when one is given and is left
// as written otherwise; both cases are logged as warnings.
func Substitute(
	ctx context.Context,
	logger *slog.Logger,
	s string,
	vars Variables,
) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		key := groups[1]

		if val, ok := vars.Lookup(key); ok {
			return val
		}

		if groups[2] != "" {
			logger.WarnContext(ctx, "variable not set, using default", "key", key, "default", groups[3])

			return groups[3]
		}

		logger.WarnContext(ctx, "variable not set, left unsubstituted", "key", key)

		return match
	})
}
