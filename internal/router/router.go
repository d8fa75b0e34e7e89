package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

const (
	// PathLogin はログイン画面のパス。
	PathLogin = "/login"
	// PathRoot はルートパス。ドメイン一覧へリダイレクトする。
	PathRoot = "/"
	// PathDomains はドメイン一覧のパス。
	PathDomains = "/domains"
	// PathAccounts は転送ルール一覧のパス。
	PathAccounts = "/accounts"
	// PathLogs は転送ログのパス。
	PathLogs = "/logs"

	// NameLogin はガードの唯一の例外となるログイン画面のルート名。
	NameLogin = "Login"
	// NameDomains はドメイン一覧のルート名。
	NameDomains = "Domains"
	// NameAccounts は転送ルール一覧のルート名。
	NameAccounts = "Accounts"
	// NameLogs は転送ログのルート名。
	NameLogs = "Logs"

	// maxRedirects はリダイレクトを辿る上限。
	maxRedirects = 8
)

var (
	// ErrNotFound は未登録のパスへ遷移しようとしたことを表す。
	ErrNotFound = errors.New("ルートが見つかりません")
	// ErrRedirectLoop はリダイレクトが上限を超えて続いたことを表す。
	ErrRedirectLoop = errors.New("リダイレクトがループしています")
)

// Route はルート表の1エントリ。
type Route struct {
	// Path はルートのパス。
	Path string
	// Name はルート名。名前の無いルートもある。
	Name string
	// RequiresAuth はセッションが必要かどうか。
	RequiresAuth bool
	// Redirect は設定されている場合、このルートへの遷移を指定パスへ置き換える。
	Redirect string
}

// DefaultRoutes はコンソールのルート表を返す。
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathLogin, Name: NameLogin},
		{Path: PathRoot, RequiresAuth: true, Redirect: PathDomains},
		{Path: PathDomains, Name: NameDomains, RequiresAuth: true},
		{Path: PathAccounts, Name: NameAccounts, RequiresAuth: true},
		{Path: PathLogs, Name: NameLogs, RequiresAuth: true},
	}
}

// SessionChecker はセッションの有無を返す。*session.Session が満たす。
type SessionChecker interface {
	HasToken(ctx context.Context) bool
}

// Router は現在のルートを保持し、ガードを通して遷移を確定させる。
type Router struct {
	mu sync.RWMutex
	// routes はパスをキーとしたルート表。
	routes map[string]Route
	// order は登録順のルート一覧。
	order []Route
	// current は現在のルート。初回遷移前はゼロ値。
	current Route
	// session はガードに渡すセッションの有無の取得元。
	session SessionChecker
	// guards は遷移前に順に評価するガード。
	guards []Guard
	// resetHooks は強制遷移時に呼ぶ状態破棄関数。
	resetHooks []func()
	// listeners は遷移確定時に呼ぶ関数。
	listeners []func(Route)
}

// New はルート表とガードからRouterを生成する。
// guardsを省略した場合はRequireSessionを使う。
func New(routes []Route, sess SessionChecker, guards ...Guard) *Router {
	if len(guards) == 0 {
		guards = []Guard{RequireSession}
	}
	r := &Router{
		routes:  make(map[string]Route, len(routes)),
		session: sess,
		guards:  guards,
	}
	for _, route := range routes {
		r.routes[route.Path] = route
		r.order = append(r.order, route)
	}
	return r
}

// Routes は登録順のルート一覧を返す。
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Route(nil), r.order...)
}

// Current は現在のルートを返す。
func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// OnReset は強制遷移時に呼ばれる状態破棄関数を登録する。
func (r *Router) OnReset(fn func()) {
	r.mu.Lock()
	r.resetHooks = append(r.resetHooks, fn)
	r.mu.Unlock()
}

// OnNavigate は遷移が確定したときに呼ばれる関数を登録する。
func (r *Router) OnNavigate(fn func(Route)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Resolve はパスに対応するルートを返す。末尾のスラッシュは無視する。
func (r *Router) Resolve(path string) (Route, error) {
	path = normalize(path)
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.routes[path]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return route, nil
}

// Navigate はpathへ遷移する。ルートのリダイレクトを解決した後にガードを評価し、
// ガードがリダイレクトを返した場合は遷移先を差し替えて評価をやり直す。
func (r *Router) Navigate(ctx context.Context, path string) (Route, error) {
	from := r.Current()

	target := path
	for i := 0; ; i++ {
		if i >= maxRedirects {
			return from, fmt.Errorf("%w: %s", ErrRedirectLoop, path)
		}

		to, err := r.Resolve(target)
		if err != nil {
			return from, err
		}
		if to.Redirect != "" {
			target = to.Redirect
			continue
		}

		decision := r.evaluate(ctx, to, from)
		if decision.Kind == Redirect && normalize(decision.To) != to.Path {
			target = decision.To
			continue
		}

		r.commit(to)
		return to, nil
	}
}

// HardRedirect はメモリ上の画面状態を破棄してからpathへ遷移する。
// 401を受けた際にRequest Gatewayから呼ばれる。
func (r *Router) HardRedirect(ctx context.Context, path string) {
	r.mu.RLock()
	hooks := append([]func(){}, r.resetHooks...)
	r.mu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
	if _, err := r.Navigate(ctx, path); err != nil {
		log.Printf("[Router] 強制遷移に失敗: path=%s: %v", path, err)
	}
}

func (r *Router) evaluate(ctx context.Context, to, from Route) Decision {
	hasSession := r.session != nil && r.session.HasToken(ctx)
	for _, g := range r.guards {
		if d := g(to, from, hasSession); d.Kind == Redirect {
			return d
		}
	}
	return AllowNavigation()
}

func (r *Router) commit(to Route) {
	r.mu.Lock()
	r.current = to
	listeners := append([]func(Route){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(to)
	}
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return path
}
