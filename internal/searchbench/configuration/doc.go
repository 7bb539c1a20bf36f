/*
Package configuration defines the input configuration for searchbench.

searchbench drives concurrent search workloads against a search engine and reports latency statistics together
with a chart of the average latency per query length.

# Example YAML Configuration

	backend:
	  kind: meilisearch
	  address: http://127.0.0.1:7700
	  index: movies
	  requestTimeout: 10s
	  taskPollInterval: 1s
	  maxTaskPolls: 600
	  settleDuration: 30s
	workload:
	  mode: typing
	  concurrency: 10
	  termsFile: ~/datasets/terms.txt
	  termsPerWorker: 5000
	prep:
	  documentsFile: ~/datasets/movies.json
	output:
	  directory: results
	  writeSummary: true
	metricsPort: 9000

Configuration is loaded with viper, so every value can also be overridden by an environment variable such as
SEARCHBENCH_WORKLOAD_CONCURRENCY.  Validate checks the loaded configuration using struct tags.
*/
package configuration
