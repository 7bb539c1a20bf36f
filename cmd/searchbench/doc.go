// Package main provides searchbench, a load tester for search engines.
//
// searchbench loads a set of documents into lnx, Meilisearch or Typesense, then sends search terms to it from many
// concurrent workers. The latencies of all workers are merged into a single report with throughput, latency
// statistics, error counts and a chart of the average latency per query length.
package main
