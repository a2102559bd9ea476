// Package cli constructs the clipdiff command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives. The snapshot and history subcommands share the persistent
// configuration and logger this package initializes.
package cli
