// Package cli constructs the fastrepo command-line interface. It classifies
// the argument vector, runs the status subcommand in process through a Cobra
// command hierarchy with Viper configuration and zap logging, and hands every
// other command to the external repo tool unchanged.
package cli
