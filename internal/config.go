package internal

import "time"

type Config struct {
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel           string        `env:"LOG_LEVEL,default=info"`
	CheckpointInterval time.Duration `env:"CHECKPOINT_INTERVAL,default=1m"`
}
