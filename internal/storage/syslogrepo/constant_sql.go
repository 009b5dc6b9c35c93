package syslogrepo

const (
	sqlMigrateSystemLogs = `
		CREATE TABLE IF NOT EXISTS system_logs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			level      TEXT NOT NULL,
			message    TEXT NOT NULL,
			fields     TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);
`

	sqlAppendSystemLog = `INSERT INTO system_logs (level, message, fields, created_at) VALUES (?, ?, ?, ?);`

	sqlSelectRecentSystemLogs = `SELECT * FROM system_logs ORDER BY id DESC LIMIT ?;`

	sqlPruneSystemLogs = `DELETE FROM system_logs WHERE id NOT IN (SELECT id FROM system_logs ORDER BY id DESC LIMIT ?);`
)
