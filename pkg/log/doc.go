// Package log is the logging abstraction shared by netsdr packages.
//
// Components accept a [Logger] and attach structured [Field] values rather
// than formatting strings:
//
//	logger := log.NewZerologAdapter(os.Stderr, zerolog.InfoLevel)
//	logger.Info("connected", log.String("addr", "127.0.0.1:50000"))
//
// [NoopLogger] is the default for sessions built without a logger and is
// convenient in tests.
package log
