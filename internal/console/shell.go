package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/nao1215/mailforward/internal/adminapi"
	"github.com/nao1215/mailforward/internal/i18n"
	"github.com/nao1215/mailforward/internal/router"
	"github.com/nao1215/mailforward/pkg/httpclient"
	"github.com/nao1215/mailforward/pkg/session"
)

// maxRenderPasses は1コマンドあたりの再描画の上限。
// 描画中の401でログイン画面へ遷移した場合に2回目の描画が起きる。
const maxRenderPasses = 4

// Shell はコマンドを1行ずつ読み取って実行する対話シェル。
type Shell struct {
	sess     *session.Session
	api      *adminapi.Client
	router   *router.Router
	tr       *i18n.Translator
	notifier *Notifier
	views    *views
	out      io.Writer
	// dirty は遷移が確定して再描画が必要なことを表す。
	dirty atomic.Bool
}

// NewShell は各部品からShellを組み立てる。
// ルーターの強制遷移で画面状態が破棄されるよう登録する。
func NewShell(sess *session.Session, api *adminapi.Client, rt *router.Router, tr *i18n.Translator, notifier *Notifier, out io.Writer) *Shell {
	state := newViewState()
	s := &Shell{
		sess:     sess,
		api:      api,
		router:   rt,
		tr:       tr,
		notifier: notifier,
		views:    &views{api: api, tr: tr, state: state},
		out:      out,
	}
	rt.OnReset(state.reset)
	rt.OnNavigate(func(router.Route) { s.dirty.Store(true) })
	return s
}

// Run はルートパスへの初回遷移を行い、inからコマンドを読み続ける。
// quitか入力の終端で終了する。
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	if _, err := s.router.Navigate(ctx, router.PathRoot); err != nil {
		return fmt.Errorf("初回遷移に失敗: %w", err)
	}
	s.flush(ctx)

	scanner := bufio.NewScanner(in)
	for {
		s.prompt()
		if !scanner.Scan() {
			break
		}
		quit := s.Execute(ctx, scanner.Text())
		s.flush(ctx)
		if quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("入力の読み取りに失敗: %w", err)
	}
	return nil
}

// Execute は1行分のコマンドを実行する。終了コマンドの場合にtrueを返す。
// 画面の再描画は行わない。
func (s *Shell) Execute(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(cmd) {
	case "":
	case "help", "?":
		s.println(s.tr.T("console.help"))
	case "quit", "exit":
		return true
	case "where":
		s.where(ctx)
	case "go":
		s.goTo(ctx, args)
	case "login":
		s.login(ctx, rest)
	case "logout":
		s.logout(ctx)
	case "locale":
		s.switchLocale(ctx, args)
	case "list", "refresh":
		s.views.state.invalidate(s.router.Current().Name)
		s.dirty.Store(true)
	case "add":
		s.add(ctx, cmd, rest, args)
	case "update":
		s.update(ctx, cmd, rest, args)
	case "delete":
		s.remove(ctx, cmd, args)
	case "page":
		s.page(cmd, args)
	default:
		s.println(s.tr.Tf("console.unknown", cmd))
	}
	return false
}

func (s *Shell) where(ctx context.Context) {
	current := s.router.Current()
	label := current.Path
	if current.Name != "" {
		label += " (" + current.Name + ")"
	}
	s.println(s.tr.Tf("console.current", label))
	s.println(s.tr.Tf("console.session", s.sess.State(ctx)))
}

func (s *Shell) goTo(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.println(s.tr.Tf("console.usage", "go <path>"))
		return
	}
	if _, err := s.router.Navigate(ctx, args[0]); err != nil {
		if errors.Is(err, router.ErrNotFound) {
			s.println(s.tr.Tf("console.notFound", args[0]))
			return
		}
		s.report(err)
	}
}

// login は管理者パスワードでログインし、トークンを保存してドメイン一覧へ遷移する。
func (s *Shell) login(ctx context.Context, password string) {
	if password == "" {
		s.println(s.tr.Tf("console.usage", "login <password>"))
		return
	}
	token, err := s.api.Login(ctx, password)
	if err != nil {
		s.report(err)
		return
	}
	if err := s.sess.SetToken(ctx, token); err != nil {
		s.report(err)
		return
	}
	s.notifier.Success(s.tr.T("login.success"))
	if _, err := s.router.Navigate(ctx, router.PathDomains); err != nil {
		s.report(err)
	}
}

// logout はトークンを破棄して画面状態ごとログイン画面へ戻る。
func (s *Shell) logout(ctx context.Context) {
	if err := s.sess.Clear(ctx); err != nil {
		s.report(err)
		return
	}
	s.notifier.Success(s.tr.T("login.logout"))
	s.router.HardRedirect(ctx, router.PathLogin)
}

func (s *Shell) switchLocale(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.println(s.tr.Tf("console.usage", "locale <en|zh>"))
		return
	}
	l, err := i18n.ParseLocale(args[0])
	if err != nil {
		s.println(s.tr.Tf("console.invalidLocale", args[0]))
		return
	}
	if err := s.tr.SetLocale(ctx, l); err != nil {
		s.report(err)
		return
	}
	s.println(s.tr.Tf("console.locale", l))
	s.dirty.Store(true)
}

func (s *Shell) add(ctx context.Context, cmd, rest string, args []string) {
	switch s.router.Current().Name {
	case router.NameDomains:
		if len(args) != 1 {
			s.println(s.tr.Tf("console.usage", "add <domain>"))
			return
		}
		if _, err := s.api.CreateDomain(ctx, args[0]); err != nil {
			s.report(err)
			return
		}
		s.changed(router.NameDomains, "domain.added")
	case router.NameAccounts:
		if len(args) < 2 {
			s.println(s.tr.Tf("console.usage", "add <pattern> <forward_to> [description]"))
			return
		}
		in := adminapi.AccountInput{Pattern: args[0], ForwardTo: args[1], Description: trailing(rest, 2)}
		if _, err := s.api.CreateAccount(ctx, in); err != nil {
			s.report(err)
			return
		}
		s.changed(router.NameAccounts, "account.added")
	default:
		s.println(s.tr.Tf("console.unsupported", cmd))
	}
}

func (s *Shell) update(ctx context.Context, cmd, rest string, args []string) {
	if s.router.Current().Name != router.NameAccounts {
		s.println(s.tr.Tf("console.unsupported", cmd))
		return
	}
	usage := "update <id> <pattern> <forward_to> [description]"
	if len(args) < 3 {
		s.println(s.tr.Tf("console.usage", usage))
		return
	}
	id, ok := parseID(args[0])
	if !ok {
		s.println(s.tr.Tf("console.usage", usage))
		return
	}
	in := adminapi.AccountInput{Pattern: args[1], ForwardTo: args[2], Description: trailing(rest, 3)}
	if _, err := s.api.UpdateAccount(ctx, id, in); err != nil {
		s.report(err)
		return
	}
	s.changed(router.NameAccounts, "account.updated")
}

func (s *Shell) remove(ctx context.Context, cmd string, args []string) {
	name := s.router.Current().Name
	if name != router.NameDomains && name != router.NameAccounts {
		s.println(s.tr.Tf("console.unsupported", cmd))
		return
	}
	var id uint
	ok := len(args) == 1
	if ok {
		id, ok = parseID(args[0])
	}
	if !ok {
		s.println(s.tr.Tf("console.usage", "delete <id>"))
		return
	}

	if name == router.NameDomains {
		if err := s.api.DeleteDomain(ctx, id); err != nil {
			s.report(err)
			return
		}
		s.changed(name, "domain.deleted")
		return
	}
	if err := s.api.DeleteAccount(ctx, id); err != nil {
		s.report(err)
		return
	}
	s.changed(name, "account.deleted")
}

func (s *Shell) page(cmd string, args []string) {
	if s.router.Current().Name != router.NameLogs {
		s.println(s.tr.Tf("console.unsupported", cmd))
		return
	}
	var n int
	ok := len(args) == 1
	if ok {
		var err error
		n, err = strconv.Atoi(args[0])
		ok = err == nil && n >= 1
	}
	if !ok {
		s.println(s.tr.Tf("console.usage", "page <n>"))
		return
	}
	s.views.state.setLogPage(n)
	s.dirty.Store(true)
}

// changed は更新成功を通知し、nameの一覧を再取得させる。
func (s *Shell) changed(name, messageKey string) {
	s.notifier.Success(s.tr.T(messageKey))
	s.views.state.invalidate(name)
	s.dirty.Store(true)
}

// flush は遷移や更新があった場合に現在の画面を描画する。
func (s *Shell) flush(ctx context.Context) {
	for i := 0; i < maxRenderPasses && s.dirty.Swap(false); i++ {
		if err := s.views.render(ctx, s.out, s.router.Current()); err != nil {
			s.report(err)
		}
	}
}

// report はエラーを利用者に伝える。Request Gatewayが通知済みのエラーはログだけに残す。
func (s *Shell) report(err error) {
	var gwErr *httpclient.Error
	if errors.As(err, &gwErr) {
		log.Printf("[Console] %v", err)
		return
	}
	s.notifier.Notify(err.Error())
}

func (s *Shell) prompt() {
	fmt.Fprint(s.out, promptStyle.Render(s.router.Current().Path)+" > ")
}

func (s *Shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// trailing はsのn番目以降のフィールドを元の空白を保ったまま返す。
func trailing(s string, n int) string {
	for i := 0; i < n; i++ {
		s = strings.TrimLeft(s, " \t")
		idx := strings.IndexAny(s, " \t")
		if idx < 0 {
			return ""
		}
		s = s[idx:]
	}
	return strings.TrimSpace(s)
}
