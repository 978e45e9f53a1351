// Package nimbus is an in-process, CloudEvents-shaped messaging core for Go
// services that want a request/response Message Router and a fire-and-forget
// Event Bus without adopting a broker. It models every payload as a
// CloudEvents v1.0 envelope, validates payloads against either a declarative
// object schema or a tagged Go struct, and reports every routing and
// delivery decision through a narrow tracing/metrics Provider.
//
// Router dispatches commands and queries to a type-keyed handler table:
// Register binds a message type to a handler and optional schema, and Route
// runs the full algorithm — span, type check, lookup, validation, handler
// invocation, metrics — returning the handler's result or its error
// unchanged. EventBus fans events out to every subscription of their type
// concurrently, retrying a failing subscriber with capped exponential
// backoff before handing the final error to that subscription's error sink.
//
// # Observability
//
// Both components are logger- and telemetry-agnostic: WithLogger installs
// any logging.Logger (logging.Nop by default; a zerolog-backed Logger is
// available from NewZerologLogger), and WithTelemetry installs any
// telemetry.Provider (an
// OpenTelemetry tracer paired with a Prometheus meter by default).
//
// # Registries
//
// The registry package gives callers named, at-most-once-constructed Router
// and EventBus instances so unrelated parts of a program can share one by
// name. Most programs reach for the package-level SetupRouter/GetRouter and
// SetupEventBus/GetEventBus convenience functions, which operate against a
// single process-wide Registry; registry.NewRegistry returns an independent
// instance for tests that want isolation.
package nimbus
