package main

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	// BufferSize bounds the persist queue; NumberOfWorkers bounds how many
	// durable writes run at once. Together they are the backpressure policy.
	BufferSize           int    `env:"BUFFER_SIZE,required=true"`
	ConnectionBufferSize int    `env:"CONNECTION_BUFFER_SIZE,required=true"`
	NumberOfWorkers      int    `env:"NUMBER_OF_WORKERS,required=true"`
	LimitMessages        *int   `env:"LIMIT_MESSAGES"`
	CensoredWords        string `env:"CENSORED_WORDS"`
	CensoredChar         string `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`

	DeliveryTimeout time.Duration `env:"DELIVERY_TIMEOUT,required=true"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,required=true"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`
	Host           string `env:"HOST,default=localhost"`
	Port           int    `env:"PORT,default=8080"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// SplitWords parses the comma-separated censored words list; empty entries
// are skipped so a trailing comma is harmless.
func SplitWords(csv string) []string {
	var words []string
	for _, w := range strings.Split(csv, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
