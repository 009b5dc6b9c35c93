package serverrepo

const (
	sqlMigrateServers = `
		CREATE TABLE IF NOT EXISTS smtp_servers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			config     TEXT NOT NULL,
			built_in   INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		);
`

	sqlSeedServer = `INSERT INTO smtp_servers (name, config, built_in, created_at)
		VALUES (?, ?, 1, ?) ON CONFLICT (name) DO NOTHING;`

	sqlSaveServer = `INSERT INTO smtp_servers (name, config, built_in, created_at)
		VALUES (?, ?, 0, ?)
		ON CONFLICT (name) DO UPDATE SET config = excluded.config
		RETURNING *;`

	sqlGetServerByName = `SELECT * FROM smtp_servers WHERE LOWER(name) = ? LIMIT 1;`

	sqlSelectServers = `SELECT * FROM smtp_servers ORDER BY built_in DESC, name;`

	sqlDeleteServer = `DELETE FROM smtp_servers WHERE LOWER(name) = ? AND built_in = 0;`
)
