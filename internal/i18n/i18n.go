// Package i18n はコンソールの表示言語を扱う。
// 選択中の言語に訳が無いキーは英語にフォールバックする。
package i18n

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/nao1215/mailforward/pkg/session"
)

// Locale は表示言語。
type Locale string

const (
	// English は英語。フォールバック先でもある。
	English Locale = "en"
	// Chinese は中国語。保存値が無い場合の既定値。
	Chinese Locale = "zh"

	// DefaultLocale は保存値が無い場合の表示言語。
	DefaultLocale = Chinese
	// FallbackLocale は訳が無い場合に参照する表示言語。
	FallbackLocale = English
)

// ErrUnsupportedLocale はen/zh以外の言語を指定したことを表す。
var ErrUnsupportedLocale = errors.New("未対応の言語です")

// Messages はキーから訳文への対応表。
type Messages map[string]string

// Catalog は言語ごとの対応表。
type Catalog map[Locale]Messages

// DefaultCatalog は組み込みの対応表を返す。
func DefaultCatalog() Catalog {
	return Catalog{English: english, Chinese: chinese}
}

// ParseLocale は文字列をLocaleに変換する。
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case English, Chinese:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, s)
	}
}

// Translator は選択中の言語でキーを訳す。
type Translator struct {
	mu      sync.RWMutex
	locale  Locale
	catalog Catalog
	// store は選択言語の保存先。nilの場合は保存しない。
	store session.Store
}

// New はstoreに保存された言語で初期化したTranslatorを返す。
// 保存値が無いか不正な場合はDefaultLocaleを使う。
func New(ctx context.Context, store session.Store, catalog Catalog) *Translator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	t := &Translator{locale: DefaultLocale, catalog: catalog, store: store}
	if store == nil {
		return t
	}

	saved, err := store.Get(ctx, session.KeyLocale)
	switch {
	case errors.Is(err, session.ErrNotFound):
	case err != nil:
		log.Printf("[I18n] 表示言語の読み取りに失敗: %v", err)
	default:
		if l, err := ParseLocale(saved); err == nil {
			t.locale = l
		}
	}
	return t
}

// Locale は選択中の言語を返す。
func (t *Translator) Locale() Locale {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locale
}

// SetLocale は言語を切り替えて保存する。
func (t *Translator) SetLocale(ctx context.Context, l Locale) error {
	if _, err := ParseLocale(string(l)); err != nil {
		return err
	}
	if t.store != nil {
		if err := t.store.Set(ctx, session.KeyLocale, string(l)); err != nil {
			return fmt.Errorf("表示言語の保存に失敗: %w", err)
		}
	}
	t.mu.Lock()
	t.locale = l
	t.mu.Unlock()
	return nil
}

// T はkeyの訳文を返す。選択中の言語に無ければ英語、英語にも無ければkeyを返す。
func (t *Translator) T(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if msg, ok := t.catalog[t.locale][key]; ok {
		return msg
	}
	if msg, ok := t.catalog[FallbackLocale][key]; ok {
		return msg
	}
	return key
}

// Tf はkeyの訳文を書式として引数を埋め込む。
func (t *Translator) Tf(key string, args ...any) string {
	return fmt.Sprintf(t.T(key), args...)
}
