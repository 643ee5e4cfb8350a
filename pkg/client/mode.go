package client

import (
	"database/sql"
	"sync"
)

// ModeState 在线/离线标志。持久化在镜像库的 kv 表里，
// 进程重启后保持上次的模式。
type ModeState struct {
	mu     sync.Mutex
	db     *sql.DB
	online bool
}

func NewModeState(db *sql.DB) (*ModeState, error) {
	m := &ModeState{db: db, online: true}
	var v string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = 'online'`).Scan(&v)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, err
	default:
		m.online = v != "0"
	}
	return m, nil
}

func (m *ModeState) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *ModeState) SetOnline(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online == on {
		return
	}
	m.online = on
	v := "1"
	if !on {
		v = "0"
	}
	_, _ = m.db.Exec(`INSERT INTO kv(key, value) VALUES('online', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, v)
}
