// Package adminapi は管理APIの各エンドポイントを型付きで呼び出す。
// 認証とエラー通知はRequest Gatewayが行うため、ここでは扱わない。
package adminapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPage はログ一覧の既定ページ番号。
	DefaultPage = 1
	// DefaultPageSize はログ一覧の既定件数。
	DefaultPageSize = 20
)

// ErrInvalidInput は送信前の入力検証に失敗したことを表す。
var ErrInvalidInput = errors.New("入力が不正です")

// Gateway は管理APIとの通信手段。*httpclient.Client が満たす。
type Gateway interface {
	GetJSON(ctx context.Context, path string, result any) error
	PostJSON(ctx context.Context, path string, body, result any) error
	PutJSON(ctx context.Context, path string, body, result any) error
	DeleteJSON(ctx context.Context, path string, result any) error
}

// Client は管理APIの呼び出し口。
type Client struct {
	gw Gateway
}

// New はgwを通じて管理APIを呼び出すClientを生成する。
func New(gw Gateway) *Client {
	return &Client{gw: gw}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login は管理者パスワードでログインし、発行されたトークンを返す。
// トークンの保存は呼び出し元が行う。
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: パスワードが空です", ErrInvalidInput)
	}
	var resp loginResponse
	if err := c.gw.PostJSON(ctx, "/login", loginRequest{Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("ログイン応答にトークンが含まれていません")
	}
	return resp.Token, nil
}

// ListDomains はドメイン一覧を返す。
func (c *Client) ListDomains(ctx context.Context) ([]Domain, error) {
	var domains []Domain
	if err := c.gw.GetJSON(ctx, "/domains", &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// CreateDomain はドメインを登録する。
func (c *Client) CreateDomain(ctx context.Context, name string) (Domain, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Domain{}, fmt.Errorf("%w: ドメイン名が空です", ErrInvalidInput)
	}
	var created Domain
	if err := c.gw.PostJSON(ctx, "/domains", map[string]string{"name": name}, &created); err != nil {
		return Domain{}, err
	}
	return created, nil
}

// DeleteDomain はドメインを削除する。
func (c *Client) DeleteDomain(ctx context.Context, id uint) error {
	return c.gw.DeleteJSON(ctx, "/domains/"+strconv.FormatUint(uint64(id), 10), nil)
}

// ListAccounts は転送ルール一覧を返す。
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.gw.GetJSON(ctx, "/accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateAccount は転送ルールを登録する。
func (c *Client) CreateAccount(ctx context.Context, in AccountInput) (Account, error) {
	if err := validateAccount(in); err != nil {
		return Account{}, err
	}
	var created Account
	if err := c.gw.PostJSON(ctx, "/accounts", in, &created); err != nil {
		return Account{}, err
	}
	return created, nil
}

// UpdateAccount は転送ルールを更新する。
func (c *Client) UpdateAccount(ctx context.Context, id uint, in AccountInput) (Account, error) {
	if err := validateAccount(in); err != nil {
		return Account{}, err
	}
	var updated Account
	if err := c.gw.PutJSON(ctx, "/accounts/"+strconv.FormatUint(uint64(id), 10), in, &updated); err != nil {
		return Account{}, err
	}
	return updated, nil
}

// DeleteAccount は転送ルールを削除する。
func (c *Client) DeleteAccount(ctx context.Context, id uint) error {
	return c.gw.DeleteJSON(ctx, "/accounts/"+strconv.FormatUint(uint64(id), 10), nil)
}

// ListLogs は転送ログを新しい順に1ページ分返す。
// 0以下の値は既定値に置き換える。
func (c *Client) ListLogs(ctx context.Context, page, pageSize int) (LogPage, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var result LogPage
	if err := c.gw.GetJSON(ctx, "/logs?"+q.Encode(), &result); err != nil {
		return LogPage{}, err
	}
	return result, nil
}

func validateAccount(in AccountInput) error {
	if strings.TrimSpace(in.Pattern) == "" {
		return fmt.Errorf("%w: パターンが空です", ErrInvalidInput)
	}
	if strings.TrimSpace(in.ForwardTo) == "" {
		return fmt.Errorf("%w: 転送先が空です", ErrInvalidInput)
	}
	return nil
}
