package internal

// Config is the shared environment for the read-only tooling
// (viewer, debug server) that opens the store out-of-process.
type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	DebugPort      int    `env:"DEBUG_PORT,default=6060"`
}
