package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nao1215/mailforward/internal/adminapi"
	"github.com/nao1215/mailforward/internal/i18n"
	"github.com/nao1215/mailforward/internal/router"
)

// displayTimeLayout は一覧に表示する日時の書式。
const displayTimeLayout = "2006-01-02 15:04:05"

// maxCellWidth は表のセルに表示する最大文字数。
const maxCellWidth = 40

// viewState は画面ごとにメモリ上に保持する状態。強制遷移でまとめて破棄する。
type viewState struct {
	mu       sync.Mutex
	domains  []adminapi.Domain
	accounts []adminapi.Account
	logs     *adminapi.LogPage
	logPage  int
}

func newViewState() *viewState {
	return &viewState{logPage: adminapi.DefaultPage}
}

// reset は保持している一覧と表示中のページを破棄する。
func (v *viewState) reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.domains = nil
	v.accounts = nil
	v.logs = nil
	v.logPage = adminapi.DefaultPage
}

// invalidate はnameの画面の一覧だけを破棄し、次の描画で再取得させる。
func (v *viewState) invalidate(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch name {
	case router.NameDomains:
		v.domains = nil
	case router.NameAccounts:
		v.accounts = nil
	case router.NameLogs:
		v.logs = nil
	}
}

func (v *viewState) setLogPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page != v.logPage {
		v.logPage = page
		v.logs = nil
	}
}

// views はルートごとの描画を担う。
type views struct {
	api   *adminapi.Client
	tr    *i18n.Translator
	state *viewState
}

// render はルートに対応する画面を描画する。一覧が未取得ならAPIから取得する。
func (v *views) render(ctx context.Context, w io.Writer, route router.Route) error {
	switch route.Name {
	case router.NameLogin:
		return v.renderLogin(w)
	case router.NameDomains:
		return v.renderDomains(ctx, w)
	case router.NameAccounts:
		return v.renderAccounts(ctx, w)
	case router.NameLogs:
		return v.renderLogs(ctx, w)
	default:
		return nil
	}
}

func (v *views) renderLogin(w io.Writer) error {
	fmt.Fprintln(w, titleStyle.Render(v.tr.T("login.title")))
	fmt.Fprintln(w, hintStyle.Render(v.tr.T("login.passwordPlaceholder")+"  login <"+v.tr.T("login.password")+">"))
	return nil
}

func (v *views) loadDomains(ctx context.Context) ([]adminapi.Domain, error) {
	v.state.mu.Lock()
	cached := v.state.domains
	v.state.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	domains, err := v.api.ListDomains(ctx)
	if err != nil {
		return nil, err
	}
	if domains == nil {
		domains = []adminapi.Domain{}
	}
	v.state.mu.Lock()
	v.state.domains = domains
	v.state.mu.Unlock()
	return domains, nil
}

func (v *views) renderDomains(ctx context.Context, w io.Writer) error {
	domains, err := v.loadDomains(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render(v.tr.T("menu.domains")))
	fmt.Fprintln(w, hintStyle.Render(v.tr.T("domain.instruction")))
	if len(domains) == 0 {
		fmt.Fprintln(w, hintStyle.Render(v.tr.T("common.empty")))
		return nil
	}

	rows := make([][]string, 0, len(domains))
	for _, d := range domains {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(d.ID), 10),
			d.Name,
			formatTime(d.CreatedAt),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{v.tr.T("common.id"), v.tr.T("domain.name"), v.tr.T("common.createdAt")},
		rows, -1,
	))
	return nil
}

func (v *views) loadAccounts(ctx context.Context) ([]adminapi.Account, error) {
	v.state.mu.Lock()
	cached := v.state.accounts
	v.state.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	accounts, err := v.api.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []adminapi.Account{}
	}
	v.state.mu.Lock()
	v.state.accounts = accounts
	v.state.mu.Unlock()
	return accounts, nil
}

func (v *views) renderAccounts(ctx context.Context, w io.Writer) error {
	accounts, err := v.loadAccounts(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render(v.tr.T("menu.accounts")))
	fmt.Fprintln(w, hintStyle.Render(v.tr.T("account.patternTip")))
	if len(accounts) == 0 {
		fmt.Fprintln(w, hintStyle.Render(v.tr.T("common.empty")))
		return nil
	}

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.Pattern,
			a.ForwardTo,
			truncate(a.Description),
			strconv.FormatInt(a.HitCount, 10),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{
			v.tr.T("common.id"),
			v.tr.T("account.pattern"),
			v.tr.T("account.forwardTo"),
			v.tr.T("common.description"),
			v.tr.T("account.hitCount"),
		},
		rows, -1,
	))
	return nil
}

func (v *views) loadLogs(ctx context.Context) (adminapi.LogPage, error) {
	v.state.mu.Lock()
	cached, page := v.state.logs, v.state.logPage
	v.state.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	result, err := v.api.ListLogs(ctx, page, adminapi.DefaultPageSize)
	if err != nil {
		return adminapi.LogPage{}, err
	}
	v.state.mu.Lock()
	v.state.logs = &result
	v.state.mu.Unlock()
	return result, nil
}

// logStatusColumn はログ一覧の状態列の位置。
const logStatusColumn = 4

func (v *views) renderLogs(ctx context.Context, w io.Writer) error {
	result, err := v.loadLogs(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render(v.tr.T("menu.logs")))
	if len(result.Data) == 0 {
		fmt.Fprintln(w, hintStyle.Render(v.tr.T("common.empty")))
	} else {
		rows := make([][]string, 0, len(result.Data))
		for _, l := range result.Data {
			rows = append(rows, []string{
				formatTime(l.CreatedAt),
				truncate(l.From),
				truncate(l.To),
				truncate(l.Subject),
				l.Status,
				truncate(l.Error),
			})
		}
		fmt.Fprintln(w, renderTable(
			[]string{
				v.tr.T("log.time"),
				v.tr.T("log.from"),
				v.tr.T("log.to"),
				v.tr.T("log.subject"),
				v.tr.T("log.status"),
				v.tr.T("log.error"),
			},
			rows, logStatusColumn,
		))
	}
	fmt.Fprintln(w, hintStyle.Render(v.tr.Tf("log.page", result.Page, result.Total)))
	return nil
}

// renderTable は一覧を表として描画する。statusColが0以上の場合、その列が
// "failed" の行を強調する。
func renderTable(headers []string, rows [][]string, statusCol int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			if statusCol >= 0 && row >= 0 && row < len(rows) && col == statusCol && rows[row][col] == "failed" {
				return failedCellStyle
			}
			return cellStyle
		})
	return t.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(displayTimeLayout)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-1]) + "…"
}
