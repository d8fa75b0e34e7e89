package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/mailforward/pkg/migration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore はSQLiteファイルに値を永続化するStore。
type SQLiteStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// OpenSQLite はpathのSQLiteファイルを開き、スキーマを適用したSQLiteStoreを返す。
// 親ディレクトリが無ければ作成する。":memory:" を渡すとインメモリDBになる。
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("状態DBディレクトリの作成に失敗: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("状態DBへの接続に失敗: %w", err)
	}
	// 単一セッションのため接続は1本で足りる。:memory: でも同じDBを見続ける。
	db.SetMaxOpenConns(1)

	if err := migration.Run(ctx, db, migrations, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("状態DBのスキーマ初期化に失敗: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close はデータベース接続を閉じる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get はkeyの値を返す。
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("値の取得に失敗: key=%s: %w", key, err)
	}
	return value, nil
}

// Set はkeyにvalueを保存する。
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("値の保存に失敗: key=%s: %w", key, err)
	}
	return nil
}

// Delete はkeyの値を削除する。
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("値の削除に失敗: key=%s: %w", key, err)
	}
	return nil
}
