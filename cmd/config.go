package main

import "time"

type Config struct {
	SendBufferSize  int           `env:"SEND_BUFFER_SIZE,default=256"`
	MaxMessageSize  int64         `env:"MAX_MESSAGE_SIZE,default=4096"`
	WriteWait       time.Duration `env:"WRITE_WAIT,default=10s"`
	PongWait        time.Duration `env:"PONG_WAIT,default=60s"`
	PingInterval    time.Duration `env:"PING_INTERVAL,default=54s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	StoreGCInterval time.Duration `env:"STORE_GC_INTERVAL,default=5m"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=8080"`
	DebugPort       int           `env:"DEBUG_PORT"`
}
