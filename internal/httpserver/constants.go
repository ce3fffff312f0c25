package httpserver

import "time"

const (
	defaultPort        = "8080"
	defaultMetricsPort = "9090"

	// defaultMaxRequestBytes bounds translation request bodies.
	defaultMaxRequestBytes = 4 << 20

	readTimeout       = 10 * time.Second
	readHeaderTimeout = 3 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	maxHeaderBytes    = 1 << 12 // 4kb
)

const (
	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
)
