package varrepo

const (
	sqlMigrateVariables = `
		CREATE TABLE IF NOT EXISTS variables (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
`

	sqlSetVariable = `INSERT INTO variables (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`

	sqlGetVariable = `SELECT value FROM variables WHERE key = ? LIMIT 1;`

	sqlSelectVariables = `SELECT key, value FROM variables ORDER BY key;`

	sqlDeleteVariable = `DELETE FROM variables WHERE key = ?;`
)
