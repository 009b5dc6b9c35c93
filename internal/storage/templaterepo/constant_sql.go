package templaterepo

const (
	sqlMigrateTemplates = `
		CREATE TABLE IF NOT EXISTS templates (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			subject    TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
`

	sqlSaveTemplate = `INSERT INTO templates (name, subject, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			subject = excluded.subject,
			body = excluded.body,
			updated_at = excluded.updated_at
		RETURNING *;`

	sqlGetTemplateByName = `SELECT * FROM templates WHERE name = ? LIMIT 1;`

	sqlSelectTemplates = `SELECT * FROM templates ORDER BY name;`

	sqlDeleteTemplate = `DELETE FROM templates WHERE name = ?;`
)
