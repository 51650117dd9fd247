// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the alyra-voting API server.

alyra-voting hosts single-administrator voting sessions. Each session moves
through six phases (voter registration, proposal registration and its close,
voting and its close, tally) and elects the proposal with the most votes,
the earliest one winning ties.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first when present.

	DATABASE_URL=voting.db ADMIN_KEY_SALT=... VOTER_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-salt ... -voter-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): Journal database (sqlite path or postgres URL)
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - VOTER_KEY_SALT (-voter-salt): Secret for voter key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - REDIS_URL (-redis), REDIS_CHANNEL (-redis-channel): Publish events to redis
  - KAFKA_BROKERS (-kafka), KAFKA_TOPIC (-kafka-topic): Publish events to kafka
  - OTEL_ENDPOINT (-otel): OTLP/HTTP trace endpoint
  - LOG_LEVEL (-log-level), LOG_FORMAT (-log-format): slog settings
  - EVENT_BUFFER (-event-buffer): Pending notification buffer

# Architecture

  - voting: The workflow engine (phases, guards, tally, events)
  - sessions: In-memory registry of engines
  - notify: Event dispatcher and sinks (log, journal, metrics, redis, kafka)
  - handlers: HTTP request handlers
  - router: chi route definitions
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Admin and voter key generation and validation
  - db: Journal schema and storage
  - metrics: Prometheus collectors
  - telemetry: OpenTelemetry setup
  - cliparse: Configuration parsing

On SIGINT or SIGTERM the server stops accepting requests, finishes in-flight
ones, then drains pending events to every sink before exiting.

See package documentation for each component.
*/
package main
