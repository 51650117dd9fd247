// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

//go:build integration

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gbesset/alyra-voting/db"
	"github.com/gbesset/alyra-voting/models"
	"github.com/gbesset/alyra-voting/voting"
)

func TestJournalPostgres(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("voting"),
		postgres.WithUsername("voting"),
		postgres.WithPassword("voting"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := db.Open(db.TypePostgres, url)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.CreateSchema(conn))

	journal := db.NewJournal(conn)
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	want := []models.Envelope{
		{SessionID: "s1", Seq: 1, Event: voting.Event{Kind: voting.KindParticipantRegistered, Voter: "bob", At: at}},
		{SessionID: "s1", Seq: 2, Event: voting.Event{Kind: voting.KindPhaseChanged, Previous: voting.VotingSessionEnded, Next: voting.VotesTallied, At: at}},
	}
	for _, env := range want {
		require.NoError(t, journal.Append(ctx, env))
	}

	got, err := journal.List(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}
