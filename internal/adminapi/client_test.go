package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nao1215/mailforward/pkg/httpclient"
	"github.com/nao1215/mailforward/pkg/session"
)

// captured はテストサーバーが受け取ったリクエスト。
type captured struct {
	Method string
	URI    string
	Body   []byte
	Auth   string
}

// apiServer は固定の応答を返し、受け取ったリクエストを記録するテストサーバー。
type apiServer struct {
	mu   sync.Mutex
	reqs []captured
}

func (s *apiServer) last(t *testing.T) captured {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reqs) == 0 {
		t.Fatal("リクエストが届いていない")
	}
	return s.reqs[len(s.reqs)-1]
}

func (s *apiServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}

// newTestClient はstatusとbodyを返すサーバーに接続したClientを返す。
func newTestClient(t *testing.T, status int, body string) (*Client, *apiServer) {
	t.Helper()

	srv := &apiServer{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		srv.mu.Lock()
		srv.reqs = append(srv.reqs, captured{
			Method: r.Method,
			URI:    r.URL.RequestURI(),
			Body:   b,
			Auth:   r.Header.Get("Authorization"),
		})
		srv.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)

	sess := session.New(session.NewMemoryStore())
	if err := sess.SetToken(context.Background(), "tok"); err != nil {
		t.Fatalf("SetTokenでエラーが発生: %v", err)
	}
	gw := httpclient.New(ts.URL, sess, httpclient.WithNotifier(httpclient.NotifierFunc(func(string) {})))
	return New(gw), srv
}

// TestLogin はログイン呼び出しを検証する。
func TestLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("パスワードがPOSTされトークンが返ること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{"token":"jwt-value"}`)
		token, err := c.Login(ctx, "admin123")
		if err != nil {
			t.Fatalf("Loginでエラーが発生: %v", err)
		}
		if token != "jwt-value" {
			t.Errorf("token = %q, want %q", token, "jwt-value")
		}
		req := srv.last(t)
		if req.Method != http.MethodPost || req.URI != "/api/login" {
			t.Errorf("request = %s %s, want POST /api/login", req.Method, req.URI)
		}
		var got loginRequest
		if err := json.Unmarshal(req.Body, &got); err != nil || got.Password != "admin123" {
			t.Errorf("body = %s", req.Body)
		}
	})

	t.Run("空のパスワードは送信されないこと", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{}`)
		if _, err := c.Login(ctx, ""); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
		if srv.count() != 0 {
			t.Errorf("リクエスト数 = %d, want 0", srv.count())
		}
	})

	t.Run("トークンの無い応答はエラーになること", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, http.StatusOK, `{}`)
		if _, err := c.Login(ctx, "admin123"); err == nil {
			t.Error("errorが返るべき")
		}
	})

	t.Run("パスワード誤りは401としてGatewayのエラーが返ること", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, http.StatusUnauthorized, `{"error":"invalid password"}`)
		_, err := c.Login(ctx, "wrong")
		if !errors.Is(err, httpclient.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})
}

// TestDomains はドメイン関連の呼び出しを検証する。
func TestDomains(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("一覧が取得できること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK,
			`[{"id":1,"name":"example.com","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}]`)
		domains, err := c.ListDomains(ctx)
		if err != nil {
			t.Fatalf("ListDomainsでエラーが発生: %v", err)
		}
		if len(domains) != 1 || domains[0].ID != 1 || domains[0].Name != "example.com" {
			t.Errorf("domains = %+v", domains)
		}
		if req := srv.last(t); req.URI != "/api/domains" || req.Auth != "Bearer tok" {
			t.Errorf("request = %+v", req)
		}
	})

	t.Run("作成時に名前の前後の空白が除かれること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{"id":2,"name":"mail.example.com"}`)
		created, err := c.CreateDomain(ctx, "  mail.example.com ")
		if err != nil {
			t.Fatalf("CreateDomainでエラーが発生: %v", err)
		}
		if created.ID != 2 {
			t.Errorf("created.ID = %d, want 2", created.ID)
		}
		if body := string(srv.last(t).Body); body != `{"name":"mail.example.com"}` {
			t.Errorf("body = %s", body)
		}
	})

	t.Run("空の名前は送信されないこと", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{}`)
		if _, err := c.CreateDomain(ctx, "   "); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
		if srv.count() != 0 {
			t.Errorf("リクエスト数 = %d, want 0", srv.count())
		}
	})

	t.Run("削除でIDを含むパスにDELETEが送られること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{"message":"deleted"}`)
		if err := c.DeleteDomain(ctx, 7); err != nil {
			t.Fatalf("DeleteDomainでエラーが発生: %v", err)
		}
		if req := srv.last(t); req.Method != http.MethodDelete || req.URI != "/api/domains/7" {
			t.Errorf("request = %s %s", req.Method, req.URI)
		}
	})

	t.Run("サーバーのエラーメッセージがGatewayのエラーに含まれること", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, http.StatusBadRequest, `{"error":"domain exists"}`)
		_, err := c.CreateDomain(ctx, "example.com")
		var gwErr *httpclient.Error
		if !errors.As(err, &gwErr) {
			t.Fatalf("err = %v, want *httpclient.Error", err)
		}
		if gwErr.Message != "domain exists" || gwErr.StatusCode != http.StatusBadRequest {
			t.Errorf("gwErr = %+v", gwErr)
		}
	})
}

// TestAccounts は転送ルール関連の呼び出しを検証する。
func TestAccounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	in := AccountInput{Pattern: `^info@.*$`, ForwardTo: "a@example.com,b@example.com", Description: "info"}

	t.Run("一覧が取得できること", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestClient(t, http.StatusOK,
			`[{"id":3,"pattern":"^info@.*$","forward_to":"a@example.com","description":"","hit_count":12}]`)
		accounts, err := c.ListAccounts(ctx)
		if err != nil {
			t.Fatalf("ListAccountsでエラーが発生: %v", err)
		}
		if len(accounts) != 1 || accounts[0].HitCount != 12 || accounts[0].ForwardTo != "a@example.com" {
			t.Errorf("accounts = %+v", accounts)
		}
	})

	t.Run("作成でPOSTされること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{"id":4,"pattern":"^info@.*$"}`)
		created, err := c.CreateAccount(ctx, in)
		if err != nil {
			t.Fatalf("CreateAccountでエラーが発生: %v", err)
		}
		if created.ID != 4 {
			t.Errorf("created.ID = %d, want 4", created.ID)
		}
		req := srv.last(t)
		var got AccountInput
		if err := json.Unmarshal(req.Body, &got); err != nil {
			t.Fatalf("bodyのデコードに失敗: %v", err)
		}
		if req.Method != http.MethodPost || req.URI != "/api/accounts" || got != in {
			t.Errorf("request = %s %s %+v", req.Method, req.URI, got)
		}
	})

	t.Run("更新でIDを含むパスにPUTされること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{"id":4}`)
		if _, err := c.UpdateAccount(ctx, 4, in); err != nil {
			t.Fatalf("UpdateAccountでエラーが発生: %v", err)
		}
		if req := srv.last(t); req.Method != http.MethodPut || req.URI != "/api/accounts/4" {
			t.Errorf("request = %s %s", req.Method, req.URI)
		}
	})

	t.Run("パターンか転送先が空の場合は送信されないこと", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{}`)
		for _, bad := range []AccountInput{{ForwardTo: "a@example.com"}, {Pattern: ".*"}} {
			if _, err := c.CreateAccount(ctx, bad); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("CreateAccount(%+v) err = %v, want ErrInvalidInput", bad, err)
			}
			if _, err := c.UpdateAccount(ctx, 1, bad); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("UpdateAccount(%+v) err = %v, want ErrInvalidInput", bad, err)
			}
		}
		if srv.count() != 0 {
			t.Errorf("リクエスト数 = %d, want 0", srv.count())
		}
	})

	t.Run("削除でDELETEが送られること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, `{"message":"deleted"}`)
		if err := c.DeleteAccount(ctx, 9); err != nil {
			t.Fatalf("DeleteAccountでエラーが発生: %v", err)
		}
		if req := srv.last(t); req.Method != http.MethodDelete || req.URI != "/api/accounts/9" {
			t.Errorf("request = %s %s", req.Method, req.URI)
		}
	})
}

// TestListLogs はログ一覧の呼び出しを検証する。
func TestListLogs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body := `{"data":[{"id":10,"from":"x@example.org","to":"info@example.com","subject":"hi","status":"success","client_ip":"127.0.0.1"}],"total":41,"page":3}`

	t.Run("ページ指定がクエリに載ること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, body)
		page, err := c.ListLogs(ctx, 3, 20)
		if err != nil {
			t.Fatalf("ListLogsでエラーが発生: %v", err)
		}
		if page.Total != 41 || page.Page != 3 || len(page.Data) != 1 || page.Data[0].Status != "success" {
			t.Errorf("page = %+v", page)
		}
		if uri := srv.last(t).URI; uri != "/api/logs?page=3&pageSize=20" {
			t.Errorf("URI = %s", uri)
		}
	})

	t.Run("0以下の値は既定値になること", func(t *testing.T) {
		t.Parallel()

		c, srv := newTestClient(t, http.StatusOK, body)
		if _, err := c.ListLogs(ctx, 0, -1); err != nil {
			t.Fatalf("ListLogsでエラーが発生: %v", err)
		}
		if uri := srv.last(t).URI; uri != "/api/logs?page=1&pageSize=20" {
			t.Errorf("URI = %s", uri)
		}
	})
}
