package model

import (
	migrate "github.com/rubenv/sql-migrate"
)

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-create-threads",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS threads (
					token_id TEXT PRIMARY KEY,
					last_tweet_id TEXT NOT NULL DEFAULT '',
					last_block BIGINT NOT NULL DEFAULT 0
				);`,
			},
			Down: []string{
				`DROP TABLE threads;`,
			},
		},
	},
}
