package session

import (
	"context"
	"errors"
	"sync"
)

const (
	// KeyToken はベアラートークンを保存するキー。
	KeyToken = "token"
	// KeyLocale は表示言語を保存するキー。
	KeyLocale = "locale"
)

// ErrNotFound はキーに値が保存されていないことを表す。
var ErrNotFound = errors.New("値が保存されていません")

// Store はプロセス全体で共有するキーバリューストア。
// ブラウザのlocalStorageに相当し、SQLiteStoreはプロセス再起動後も値を保持する。
type Store interface {
	// Get はkeyの値を返す。値が無い場合はErrNotFoundを返す。
	Get(ctx context.Context, key string) (string, error)
	// Set はkeyにvalueを保存する。既存の値は上書きする。
	Set(ctx context.Context, key, value string) error
	// Delete はkeyの値を削除する。値が無くてもエラーにしない。
	Delete(ctx context.Context, key string) error
}

// MemoryStore はプロセス内だけで値を保持するStore。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get はkeyの値を返す。
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set はkeyにvalueを保存する。
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

// Delete はkeyの値を削除する。
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}
