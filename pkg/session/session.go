package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// State はセッションの認証状態を表す。
type State int

const (
	// StateUnauthenticated はトークンが保存されていない状態。
	StateUnauthenticated State = iota
	// StateAuthenticated はトークンが保存されている状態。
	StateAuthenticated
)

// String は状態名を返す。
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "Authenticated"
	default:
		return "Unauthenticated"
	}
}

// ErrEmptyToken は空のトークンを保存しようとしたことを表す。
var ErrEmptyToken = errors.New("トークンが空です")

// Session はプロセス内で唯一のセッション資格情報を扱うコンテキスト。
// 読み書きはStoreに委譲し、状態遷移の通知をまとめて行う。
type Session struct {
	// mu はStoreへの書き込みと遷移通知の順序を揃える。
	mu sync.Mutex
	// store は値の保存先。
	store Store
	// observers は状態遷移時に呼ばれる関数。
	observers []func(State)
}

// New はstoreを保存先とするSessionを生成する。
func New(store Store) *Session {
	return &Session{store: store}
}

// Store は保存先のStoreを返す。表示言語など他のキーの読み書きに使う。
func (s *Session) Store() Store {
	return s.store
}

// Token は現在のトークンを返す。保存されていない場合はfalseを返す。
// Storeの読み取りエラーはログに出力し、トークン無しとして扱う。
func (s *Session) Token(ctx context.Context) (string, bool) {
	v, err := s.store.Get(ctx, KeyToken)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[Session] トークンの読み取りに失敗: %v", err)
		}
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// HasToken はトークンが保存されているかを返す。有効期限は確認しない。
func (s *Session) HasToken(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// State は現在の認証状態を返す。
func (s *Session) State(ctx context.Context) State {
	if s.HasToken(ctx) {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// SetToken はログイン成功時に発行されたトークンを保存する。
func (s *Session) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.State(ctx)
	if err := s.store.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("トークンの保存に失敗: %w", err)
	}
	s.notify(before, StateAuthenticated)
	return nil
}

// Clear はトークンを削除する。既に削除済みでもエラーにしない。
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.State(ctx)
	if err := s.store.Delete(ctx, KeyToken); err != nil {
		return fmt.Errorf("トークンの削除に失敗: %w", err)
	}
	s.notify(before, StateUnauthenticated)
	return nil
}

// OnChange は状態が変化したときに呼ばれる関数を登録する。
// fnはSessionのロックを保持したまま呼ばれるため、fnからSessionを書き換えてはならない。
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Session) notify(before, after State) {
	if before == after {
		return
	}
	for _, fn := range s.observers {
		fn(after)
	}
}
