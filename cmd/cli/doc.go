// Package cli constructs the delete-old-releases command-line interface, wiring
// the Cobra command, the Viper configuration loader and zap logging around the
// prune command.
package cli
