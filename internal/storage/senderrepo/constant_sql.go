package senderrepo

const (
	sqlMigrateSenders = `
		CREATE TABLE IF NOT EXISTS senders (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			email        TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL DEFAULT '',
			secret       TEXT NOT NULL,
			server_name  TEXT NOT NULL,
			created_at   TIMESTAMP NOT NULL
		);
`

	sqlSaveSender = `INSERT INTO senders (email, display_name, secret, server_name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			display_name = excluded.display_name,
			secret = excluded.secret,
			server_name = excluded.server_name
		RETURNING *;`

	sqlGetSenderByEmail = `SELECT * FROM senders WHERE LOWER(email) = ? LIMIT 1;`

	sqlSelectSenders = `SELECT * FROM senders ORDER BY email;`

	sqlDeleteSender = `DELETE FROM senders WHERE LOWER(email) = ?;`
)
