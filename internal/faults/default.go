package faults

// defaultRegistry backs the process-wide Calls. Each isolated attempt is
// its own process, so "one registry per attempt" holds for code that
// reaches the catalog through Default instead of threading an explicit
// instance.
var defaultRegistry = NewRegistry()

var defaultCalls = Injected(defaultRegistry)

// Default returns the process-wide Calls. Every cataloged call made
// through it consults the default registry, whether or not a test is
// currently running.
func Default() Calls {
	return defaultCalls
}

// DefaultRegistry returns the registry behind Default, for arming and
// flushing.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
