package devapi

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/mailforward/internal/adminapi"
	"github.com/nao1215/mailforward/pkg/migration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	// ErrNotFound は対象のレコードが存在しないことを表す。
	ErrNotFound = errors.New("レコードが見つかりません")
	// ErrConflict は一意制約に違反したことを表す。
	ErrConflict = errors.New("既に登録されています")
)

// timeLayout はDBに保存する日時の書式。固定長にして文字列順と時刻順を一致させる。
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store はdevapiのデータをSQLiteに保存する。
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore はpathのSQLiteファイルを開いてスキーマを適用する。
func OpenStore(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migration.Run(ctx, db, migrations, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// ListDomains は登録順にドメインを返す。
func (s *Store) ListDomains(ctx context.Context) ([]adminapi.Domain, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at, updated_at FROM domains ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("ドメイン一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	domains := []adminapi.Domain{}
	for rows.Next() {
		var (
			d                adminapi.Domain
			created, updated string
		)
		if err := rows.Scan(&d.ID, &d.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("ドメインの読み取りに失敗: %w", err)
		}
		d.CreatedAt, d.UpdatedAt = parseTime(created), parseTime(updated)
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

// CreateDomain はドメインを登録する。
func (s *Store) CreateDomain(ctx context.Context, name string) (adminapi.Domain, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO domains (name, created_at, updated_at) VALUES (?, ?, ?)",
		name, now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return adminapi.Domain{}, wrapWriteErr("ドメインの登録に失敗", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return adminapi.Domain{}, fmt.Errorf("ドメインIDの取得に失敗: %w", err)
	}
	return adminapi.Domain{ID: uint(id), Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// DeleteDomain はドメインを削除する。
func (s *Store) DeleteDomain(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, "domains", id)
}

// ListAccounts は登録順に転送ルールを返す。
func (s *Store) ListAccounts(ctx context.Context) ([]adminapi.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pattern, forward_to, description, hit_count, created_at, updated_at
		FROM accounts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("転送ルール一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	accounts := []adminapi.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAccount はIDで転送ルールを取得する。
func (s *Store) GetAccount(ctx context.Context, id uint) (adminapi.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, pattern, forward_to, description, hit_count, created_at, updated_at
		FROM accounts WHERE id = ?
	`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return adminapi.Account{}, ErrNotFound
	}
	return a, err
}

// CreateAccount は転送ルールを登録する。
func (s *Store) CreateAccount(ctx context.Context, in adminapi.AccountInput) (adminapi.Account, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (pattern, forward_to, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, in.Pattern, in.ForwardTo, in.Description, now.UTC().Format(timeLayout), now.UTC().Format(timeLayout))
	if err != nil {
		return adminapi.Account{}, wrapWriteErr("転送ルールの登録に失敗", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return adminapi.Account{}, fmt.Errorf("転送ルールIDの取得に失敗: %w", err)
	}
	return adminapi.Account{
		ID:          uint(id),
		Pattern:     in.Pattern,
		ForwardTo:   in.ForwardTo,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateAccount は転送ルールの内容を置き換える。ヒット数は変更しない。
func (s *Store) UpdateAccount(ctx context.Context, id uint, in adminapi.AccountInput) (adminapi.Account, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET pattern = ?, forward_to = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, in.Pattern, in.ForwardTo, in.Description, now.UTC().Format(timeLayout), id)
	if err != nil {
		return adminapi.Account{}, wrapWriteErr("転送ルールの更新に失敗", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return adminapi.Account{}, ErrNotFound
	}
	return s.GetAccount(ctx, id)
}

// DeleteAccount は転送ルールを削除する。
func (s *Store) DeleteAccount(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, "accounts", id)
}

// InsertLog は転送記録を1件追加する。CreatedAtがゼロ値なら現在時刻を使う。
func (s *Store) InsertLog(ctx context.Context, l adminapi.Log) (adminapi.Log, error) {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO logs (from_addr, to_addr, subject, content, raw, status, error, client_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.From, l.To, l.Subject, l.Content, l.Raw, l.Status, l.Error, l.ClientIP, l.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return adminapi.Log{}, fmt.Errorf("転送記録の追加に失敗: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return adminapi.Log{}, fmt.Errorf("転送記録IDの取得に失敗: %w", err)
	}
	l.ID = uint(id)
	return l, nil
}

// ListLogs は新しい順に転送記録を1ページ分返す。
func (s *Store) ListLogs(ctx context.Context, page, pageSize int) (adminapi.LogPage, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM logs").Scan(&total); err != nil {
		return adminapi.LogPage{}, fmt.Errorf("転送記録の件数取得に失敗: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_addr, to_addr, subject, content, raw, status, error, client_ip, created_at
		FROM logs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
	`, pageSize, (page-1)*pageSize)
	if err != nil {
		return adminapi.LogPage{}, fmt.Errorf("転送記録の取得に失敗: %w", err)
	}
	defer rows.Close()

	result := adminapi.LogPage{Data: []adminapi.Log{}, Total: total, Page: page}
	for rows.Next() {
		var (
			l       adminapi.Log
			created string
		)
		if err := rows.Scan(&l.ID, &l.From, &l.To, &l.Subject, &l.Content, &l.Raw,
			&l.Status, &l.Error, &l.ClientIP, &created); err != nil {
			return adminapi.LogPage{}, fmt.Errorf("転送記録の読み取りに失敗: %w", err)
		}
		l.CreatedAt = parseTime(created)
		result.Data = append(result.Data, l)
	}
	return result, rows.Err()
}

// IsEmpty はドメインと転送ルールが1件も無いかどうかを返す。
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM domains) + (SELECT COUNT(*) FROM accounts)").Scan(&n)
	if err != nil {
		return false, fmt.Errorf("件数の取得に失敗: %w", err)
	}
	return n == 0, nil
}

func (s *Store) deleteByID(ctx context.Context, table string, id uint) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%sの削除に失敗: id=%d: %w", table, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner は *sql.Row と *sql.Rows の共通部分。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (adminapi.Account, error) {
	var (
		a                adminapi.Account
		created, updated string
	)
	if err := r.Scan(&a.ID, &a.Pattern, &a.ForwardTo, &a.Description, &a.HitCount, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return adminapi.Account{}, err
		}
		return adminapi.Account{}, fmt.Errorf("転送ルールの読み取りに失敗: %w", err)
	}
	a.CreatedAt, a.UpdatedAt = parseTime(created), parseTime(updated)
	return a, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func wrapWriteErr(msg string, err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%s: %w", msg, ErrConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
