package configuration

import (
	"time"

	commonconfig "github.com/armadaproject/searchbench/internal/common/config"
)

const (
	BackendLnx         = "lnx"
	BackendMeilisearch = "meilisearch"
	BackendTypesense   = "typesense"

	ModeStandard = "standard"
	ModeTyping   = "typing"
)

// TestConfig is the complete configuration of a single benchmark run.
type TestConfig struct {
	Backend  BackendConfig
	Workload WorkloadConfig
	Prep     PrepConfig
	Output   OutputConfig
	// If non-zero, Prometheus metrics are served on this port for the duration of the run
	MetricsPort uint16
}

// BackendConfig identifies the search engine under test.
type BackendConfig struct {
	// One of lnx, meilisearch or typesense
	Kind string `validate:"oneof=lnx meilisearch typesense"`
	// Base url of the engine, e.g. http://127.0.0.1:7700
	Address string `validate:"required,url"`
	// Index (or typesense collection) the documents are loaded into and searched
	Index string `validate:"required"`
	// Sent as X-TYPESENSE-API-KEY by the typesense backend
	ApiKey string
	// Timeout of a single http request. Zero means no timeout.
	RequestTimeout time.Duration `validate:"gte=0"`
	// How often meilisearch is polled while it indexes submitted documents
	TaskPollInterval time.Duration `validate:"gte=0"`
	// Maximum number of times meilisearch is polled before prep gives up
	MaxTaskPolls uint
	// How long to wait after meilisearch reports indexing as complete before searching
	SettleDuration time.Duration `validate:"gte=0"`
}

// WorkloadConfig describes the queries each worker sends.
type WorkloadConfig struct {
	// standard sends every term once, typing sends every prefix of every term
	Mode string `validate:"oneof=standard typing"`
	// Number of concurrent workers
	Concurrency int `validate:"min=1"`
	// File containing one search term per line
	TermsFile commonconfig.Path `validate:"required"`
	// Maximum number of terms each worker uses. Zero means all of them.
	TermsPerWorker int `validate:"gte=0"`
	// Seed used to shuffle the terms of each worker. Zero seeds from the current time.
	Seed int64
	// Deadline applied to every worker. Zero means workers run until they run out of terms.
	WorkerTimeout time.Duration `validate:"gte=0"`
}

// PrepConfig controls loading documents into the engine before the run.
type PrepConfig struct {
	// JSON file with the documents to index. Prep is skipped if empty.
	DocumentsFile commonconfig.Path
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	// Directory the latency chart and summary are written to. Created if it doesn't exist.
	Directory commonconfig.Path `validate:"required"`
	// Whether to additionally write run-summary.json to Directory
	WriteSummary bool
}
