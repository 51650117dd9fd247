// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores the notification journal of voting sessions.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(db.TypeSQLite, "file:voting.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

PostgreSQL uses lib/pq and SQLite uses the pure Go modernc.org/sqlite
driver. SQLite connections are limited to one so ":memory:" databases
survive between queries.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - event_log: one row per engine notification, keyed by (session_id, seq)

Phase columns are only set for PhaseChanged rows and voter is only set for
ParticipantRegistered and VoteCast rows.

# Journal

	journal := db.NewJournal(conn)
	err := journal.Append(ctx, envelope)
	events, err := journal.List(ctx, sessionID)

Journal also implements the notification sink interface (Name, Publish) so
the dispatcher can write to it directly. Engine state is held in memory and
is never rebuilt from the journal.
*/
package db
