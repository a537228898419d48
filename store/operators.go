package store

import "time"

// Operator is a panel login. LastLogin is zero until the first successful
// sign-in.
type Operator struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    time.Time
}

func (db *DB) CreateOperator(username, passwordHash string) error {
	_, err := db.Exec(db.Q(`INSERT INTO operators (username, password_hash) VALUES (?, ?)`), username, passwordHash)
	return err
}

func (db *DB) GetOperator(username string) (*Operator, error) {
	var op Operator
	var createdAt, lastLogin any
	err := db.QueryRow(db.Q(`SELECT id, username, password_hash, created_at, last_login FROM operators WHERE username=?`), username).
		Scan(&op.ID, &op.Username, &op.PasswordHash, &createdAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	op.CreatedAt = parseTime(createdAt)
	op.LastLogin = parseTime(lastLogin)
	return &op, nil
}

// TouchOperatorLogin stamps a successful sign-in.
func (db *DB) TouchOperatorLogin(username string) error {
	_, err := db.Exec(db.Q(`UPDATE operators SET last_login=? WHERE username=?`),
		time.Now().UTC().Format(time.RFC3339), username)
	return err
}

func (db *DB) OperatorExists() (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM operators`).Scan(&count)
	return count > 0, err
}
