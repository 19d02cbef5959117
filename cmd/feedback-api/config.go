// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-feedback-service/pkg/checksum"
)

// defaultCacheTTLSeconds is the default expiration of every store write.
const defaultCacheTTLSeconds = 3600

// flags are the command line flags for the feedback service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the feedback service.
type environment struct {
	Port string

	// RedisURL is the connection URL of the expiring store.
	RedisURL string

	// CollectorURL is the downstream endpoint feedback records are forwarded
	// to. Empty disables forwarding.
	CollectorURL string

	// SharedSecret signs the hook API calls to the conferencing server.
	SharedSecret string

	// BasicURL is the conferencing server's base URL and APIPath its API
	// mount path.
	BasicURL string
	APIPath  string

	// RegisterHooks enables webhook subscription management at startup and
	// shutdown.
	RegisterHooks    bool
	HooksCreatePath  string
	HooksDestroyPath string

	// CallbackURL is the public URL of this service's webhook endpoint,
	// registered with the conferencing server.
	CallbackURL string

	// RedirectURL and RedirectTimeout are the post-feedback redirect
	// defaults.
	RedirectURL     string
	RedirectTimeout string

	// CacheTTL is the expiration applied to store writes.
	CacheTTL time.Duration

	// NoRatingPolicy selects the handling of rating-less submissions.
	NoRatingPolicy service.NoRatingPolicy

	// PublicDir is the directory the feedback form assets are served from.
	PublicDir string
}

// parseFlags parses command line flags for the feedback service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the feedback service. The shared
// secret and conferencing server URL have no usable default, so missing
// values are fatal.
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	sharedSecret := os.Getenv("SHARED_SECRET")
	if sharedSecret == "" {
		slog.Error("SHARED_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	basicURL := os.Getenv("BASIC_URL")
	if basicURL == "" {
		slog.Error("BASIC_URL environment variable is required but not set")
		os.Exit(1)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	apiPath := os.Getenv("API_PATH")
	if apiPath == "" {
		apiPath = checksum.DefaultAPIPath
	}

	cacheTTLSeconds := defaultCacheTTLSeconds
	if raw := os.Getenv("CACHE_EXPIRATION_IN_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			slog.With("value", raw).Error("invalid CACHE_EXPIRATION_IN_SECONDS")
			os.Exit(1)
		}
		cacheTTLSeconds = parsed
	}

	noRatingPolicy, err := service.ParseNoRatingPolicy(os.Getenv("NO_RATING_POLICY"))
	if err != nil {
		slog.With(logging.ErrKey, err).Error("invalid NO_RATING_POLICY")
		os.Exit(1)
	}

	// Hook registration is opt-in: an unset or "false" value disables it, so
	// deployments without a reachable conferencing server start cleanly.
	registerHooks := os.Getenv("REGISTER_HOOKS")

	publicDir := os.Getenv("PUBLIC_DIR")
	if publicDir == "" {
		publicDir = "./public"
	}

	return environment{
		Port:             port,
		RedisURL:         redisURL,
		CollectorURL:     os.Getenv("FEEDBACK_URL"),
		SharedSecret:     sharedSecret,
		BasicURL:         basicURL,
		APIPath:          apiPath,
		RegisterHooks:    registerHooks != "" && registerHooks != "false",
		HooksCreatePath:  os.Getenv("HOOKS_CREATE"),
		HooksDestroyPath: os.Getenv("HOOKS_DESTROY"),
		CallbackURL:      os.Getenv("CALLBACK_PATH"),
		RedirectURL:      os.Getenv("REDIRECT_URL"),
		RedirectTimeout:  os.Getenv("REDIRECT_TIMEOUT"),
		CacheTTL:         time.Duration(cacheTTLSeconds) * time.Second,
		NoRatingPolicy:   noRatingPolicy,
		PublicDir:        publicDir,
	}
}
