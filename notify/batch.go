package notify

import (
	"os"

	"github.com/hupe1980/scenariokit/internal/util"
)

// BatchIDEnvVar names the environment variable consulted when no explicit
// batch id is configured. CI systems typically set it once per pipeline run
// so every scenario executed by the process groups under one batch.
const BatchIDEnvVar = "SCENARIOKIT_BATCH_RUN_ID"

// ResolveBatchID resolves the batch-run identifier grouping scenario runs
// for reporting. Precedence: explicit value, then BatchIDEnvVar, then a
// generated identifier. Resolve once per process and pass the value through
// configuration; there is no lazily-initialized global.
func ResolveBatchID(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(BatchIDEnvVar); env != "" {
		return env
	}
	return "batch-" + util.NewID()
}
