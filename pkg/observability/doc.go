/*
Package observability provides lifecycle hooks for monitoring the Turing engine.

Metrics exports Prometheus counters and histograms for steps, halts and run
durations; LoggingHooks writes the same events to a structured logger. Both return
domain.LifecycleHooks that can be merged and passed to the engine.
*/
package observability
