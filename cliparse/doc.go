// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The environment is read first (caarlos0/env struct tags), then CLI flags are
applied on top, so flags take precedence over environment variables.

# Settings

	Flag            Env              Default
	-p              PORT             3318
	-d              DATABASE_URL     (required)
	-t              DATABASE_TYPE    sqlite
	-admin-salt     ADMIN_KEY_SALT   (required)
	-voter-salt     VOTER_KEY_SALT   (required)
	-redis          REDIS_URL        (disabled)
	-redis-channel  REDIS_CHANNEL    voting.events
	-kafka          KAFKA_BROKERS    (disabled, comma separated)
	-kafka-topic    KAFKA_TOPIC      voting.events
	-log-level      LOG_LEVEL        info
	-log-format     LOG_FORMAT       text
	-event-buffer   EVENT_BUFFER     256

EventBuffer is the backlog size above which the dispatcher logs a warning.
Events are never dropped or made to wait while the dispatcher is open.

# Validation

ParseFlags returns an error if required values are missing or if the
database type, log level or log format is not recognised.

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(deps, cfg)
*/
package cliparse
