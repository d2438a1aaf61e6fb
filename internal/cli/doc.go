// Package cli provides command-line interface setup and configuration
// for wordloop. It creates the root command with its subcommands, parses
// flags and binds them to the viper settings keys.
package cli
