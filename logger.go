package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Graylog2/go-gelf/gelf"
	log "github.com/sirupsen/logrus"
)

type loggerConfig struct {
	level   string
	json    bool
	graylog string
}

// initLogger configures the global logrus logger. When a graylog address is
// given, entries are also shipped there as GELF messages.
func initLogger(c loggerConfig) (io.Closer, error) {
	level, err := log.ParseLevel(c.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.level, err)
	}
	log.SetLevel(level)

	if c.json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if c.graylog == "" {
		log.SetOutput(os.Stderr)
		return nil, nil
	}

	w, err := gelf.NewWriter(c.graylog)
	if err != nil {
		return nil, fmt.Errorf("connecting to graylog %s: %w", c.graylog, err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, w))
	return w, nil
}
