package console

import (
	"context"
	"fmt"
	"io"

	"github.com/nao1215/mailforward/internal/adminapi"
	"github.com/nao1215/mailforward/internal/i18n"
	"github.com/nao1215/mailforward/internal/router"
	"github.com/nao1215/mailforward/pkg/httpclient"
	"github.com/nao1215/mailforward/pkg/session"
)

// App は状態DBを所有するコンソール本体。
type App struct {
	// Shell は対話シェル。
	Shell *Shell
	store *session.SQLiteStore
}

// Open は状態DBを開いてコンソールを組み立てる。
func Open(ctx context.Context, cfg Config, out, errOut io.Writer) (*App, error) {
	store, err := session.OpenSQLite(ctx, cfg.StateDB)
	if err != nil {
		return nil, err
	}
	shell, err := Build(ctx, store, cfg, out, errOut)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &App{Shell: shell, store: store}, nil
}

// Close は状態DBを閉じる。
func (a *App) Close() error {
	return a.store.Close()
}

// Build はstoreを状態の保存先としてShellを組み立てる。
// optsはRequest Gatewayの設定に後から適用される。
func Build(ctx context.Context, store session.Store, cfg Config, out, errOut io.Writer, opts ...httpclient.Option) (*Shell, error) {
	sess := session.New(store)

	tr := i18n.New(ctx, store, nil)
	if cfg.Locale != "" {
		l, err := i18n.ParseLocale(cfg.Locale)
		if err != nil {
			return nil, fmt.Errorf("MAILFWD_LOCALEが不正: %w", err)
		}
		if err := tr.SetLocale(ctx, l); err != nil {
			return nil, err
		}
	}

	rt := router.New(router.DefaultRoutes(), sess)
	notifier := NewNotifier(errOut)

	gwOpts := []httpclient.Option{
		httpclient.WithNotifier(notifier),
		httpclient.WithRedirector(rt),
		httpclient.WithLoginPath(router.PathLogin),
		httpclient.WithFallbackFunc(func() string { return tr.T("common.requestFailed") }),
	}
	gw := httpclient.New(cfg.APIURL, sess, append(gwOpts, opts...)...)

	return NewShell(sess, adminapi.New(gw), rt, tr, notifier, out), nil
}
