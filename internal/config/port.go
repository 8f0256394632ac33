package config

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ResolvePort turns the raw PORT value into a listen port. Platforms that fail
// to expand "$PORT" hand us the literal placeholder, so anything containing '$'
// falls back to DefaultPort, as do empty, non-numeric or out-of-range values.
func ResolvePort(raw string, logger *zerolog.Logger) int {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return DefaultPort
	case strings.Contains(raw, "$"):
		logger.Warn().Str("port", raw).Int("fallback", DefaultPort).Msg("PORT contains an unexpanded placeholder")
		return DefaultPort
	}

	p, err := strconv.Atoi(raw)
	if err != nil || p <= 0 || p > 65535 {
		logger.Error().Str("port", raw).Int("fallback", DefaultPort).Msg("invalid PORT value")
		return DefaultPort
	}
	return p
}

// LogWarnings reports the anomalies collected by Load. None of them is fatal.
func (c *Config) LogWarnings(logger *zerolog.Logger) {
	for _, w := range c.Warnings {
		logger.Warn().Str("component", "config").Msg(w)
	}
}
