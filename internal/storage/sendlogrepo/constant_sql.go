package sendlogrepo

const (
	sqlMigrateSendLogs = `
		CREATE TABLE IF NOT EXISTS send_logs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id        TEXT NOT NULL,
			sender_email    TEXT NOT NULL,
			recipient_email TEXT NOT NULL,
			recipient_name  TEXT NOT NULL DEFAULT '',
			subject         TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL,
			error_message   TEXT NOT NULL DEFAULT '',
			send_time       TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_send_logs_batch_id ON send_logs (batch_id);
		CREATE INDEX IF NOT EXISTS idx_send_logs_send_time ON send_logs (send_time);
`

	sqlAppendSendLog = `INSERT INTO send_logs (
			batch_id, sender_email, recipient_email, recipient_name, subject, status, error_message, send_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING *;`

	sqlSelectByBatchID = `SELECT * FROM send_logs WHERE batch_id = ? ORDER BY id;`

	sqlSelectByDateRange = `SELECT * FROM send_logs WHERE send_time >= ? AND send_time < ? ORDER BY send_time DESC, id DESC;`

	sqlSelectBatches = `
		SELECT batch_id,
			COUNT(*) AS total,
			SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END) AS succeeded,
			SUM(CASE WHEN status = 'failure' THEN 1 ELSE 0 END) AS failed,
			MIN(send_time) AS first_send,
			MAX(send_time) AS last_send
		FROM send_logs GROUP BY batch_id ORDER BY last_send DESC LIMIT ?;
`
)
