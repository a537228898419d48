package store

import "time"

// CommandRecord is one dispatched operator command and how it ended.
type CommandRecord struct {
	ID        int64     `json:"id"`
	CommandID string    `json:"command_id"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Actor     string    `json:"actor"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) RecordCommand(commandID, action, target, actor, outcome, detail string) error {
	_, err := db.Exec(db.Q(`INSERT INTO command_log (command_id, action, target, actor, outcome, detail) VALUES (?, ?, ?, ?, ?, ?)`),
		commandID, action, target, actor, outcome, detail)
	return err
}

func (db *DB) ListCommands(limit int) ([]*CommandRecord, error) {
	rows, err := db.Query(db.Q(`SELECT id, command_id, action, target, actor, outcome, detail, created_at FROM command_log ORDER BY id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*CommandRecord
	for rows.Next() {
		var rec CommandRecord
		var createdAt any
		if err := rows.Scan(&rec.ID, &rec.CommandID, &rec.Action, &rec.Target, &rec.Actor, &rec.Outcome, &rec.Detail, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (db *DB) ListTargetCommands(target string, limit int) ([]*CommandRecord, error) {
	rows, err := db.Query(db.Q(`SELECT id, command_id, action, target, actor, outcome, detail, created_at FROM command_log WHERE target=? ORDER BY id DESC LIMIT ?`), target, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*CommandRecord
	for rows.Next() {
		var rec CommandRecord
		var createdAt any
		if err := rows.Scan(&rec.ID, &rec.CommandID, &rec.Action, &rec.Target, &rec.Actor, &rec.Outcome, &rec.Detail, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, &rec)
	}
	return records, rows.Err()
}
