package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	// A missing .env is fine; the environment still applies.
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env")
	}

	if err := newRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}
