// Package utils exposes helpers shared by the fastrepo commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// FASTREPO_ environment variables through Viper; LoggerFactory builds zap
// loggers that write diagnostics to standard error; the color helpers decide
// whether report output is decorated and build lipgloss renderers accordingly.
package utils
