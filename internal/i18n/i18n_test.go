package i18n

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/mailforward/pkg/session"
)

// TestNew は保存値からの初期化を検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("保存値が無い場合zhになること", func(t *testing.T) {
		t.Parallel()

		tr := New(ctx, session.NewMemoryStore(), nil)
		if got := tr.Locale(); got != Chinese {
			t.Errorf("Locale() = %q, want %q", got, Chinese)
		}
		if got := tr.T("menu.domains"); got != "域名管理" {
			t.Errorf("T(menu.domains) = %q, want %q", got, "域名管理")
		}
	})

	t.Run("保存値がenの場合enになること", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		_ = store.Set(ctx, session.KeyLocale, "en")
		tr := New(ctx, store, nil)
		if got := tr.Locale(); got != English {
			t.Errorf("Locale() = %q, want %q", got, English)
		}
	})

	t.Run("不正な保存値は無視されzhになること", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		_ = store.Set(ctx, session.KeyLocale, "fr")
		if got := New(ctx, store, nil).Locale(); got != Chinese {
			t.Errorf("Locale() = %q, want %q", got, Chinese)
		}
	})
}

// TestT は訳文の解決とフォールバックを検証する。
func TestT(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("zhに無くenにあるキーはenの訳が返ること", func(t *testing.T) {
		t.Parallel()

		catalog := Catalog{
			English: {"greeting": "Hello", "only.en": "English only"},
			Chinese: {"greeting": "你好"},
		}
		tr := New(ctx, nil, catalog)
		if got := tr.T("only.en"); got != "English only" {
			t.Errorf("T(only.en) = %q, want %q", got, "English only")
		}
		if got := tr.T("greeting"); got != "你好" {
			t.Errorf("T(greeting) = %q, want %q", got, "你好")
		}
	})

	t.Run("組み込みの対応表でもフォールバックすること", func(t *testing.T) {
		t.Parallel()

		tr := New(ctx, nil, nil)
		if got, want := tr.T("console.help"), english["console.help"]; got != want {
			t.Errorf("T(console.help) = %q, want %q", got, want)
		}
	})

	t.Run("どの言語にも無いキーはキー自身が返ること", func(t *testing.T) {
		t.Parallel()

		tr := New(ctx, nil, nil)
		if got := tr.T("no.such.key"); got != "no.such.key" {
			t.Errorf("T(no.such.key) = %q", got)
		}
	})

	t.Run("全ての中国語キーが英語にも存在すること", func(t *testing.T) {
		t.Parallel()

		for key := range chinese {
			if _, ok := english[key]; !ok {
				t.Errorf("英語の対応表に %q が無い", key)
			}
		}
	})
}

// TestSetLocale は言語の切り替えと保存を検証する。
func TestSetLocale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("切り替えた言語が保存され再生成後も維持されること", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		tr := New(ctx, store, nil)
		if err := tr.SetLocale(ctx, English); err != nil {
			t.Fatalf("SetLocale()でエラーが発生: %v", err)
		}
		if got := tr.T("menu.logs"); got != "Logs" {
			t.Errorf("T(menu.logs) = %q, want %q", got, "Logs")
		}
		if got := New(ctx, store, nil).Locale(); got != English {
			t.Errorf("再生成後のLocale() = %q, want %q", got, English)
		}
	})

	t.Run("未対応の言語は拒否されること", func(t *testing.T) {
		t.Parallel()

		tr := New(ctx, session.NewMemoryStore(), nil)
		if err := tr.SetLocale(ctx, Locale("ja")); !errors.Is(err, ErrUnsupportedLocale) {
			t.Errorf("err = %v, want ErrUnsupportedLocale", err)
		}
		if got := tr.Locale(); got != Chinese {
			t.Errorf("Locale() = %q, want %q", got, Chinese)
		}
	})
}
