package translator

import "time"

// Values of the result label of the translations metric.
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

const (
	exporterName = "snapshot-exporter"

	// overdueGrace is how late a scheduled export may start before Ping fails.
	overdueGrace = time.Minute
)
