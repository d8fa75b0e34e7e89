package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/mailforward/pkg/session"
)

const (
	// APIPrefix は全リクエストの基点となるAPIルート。
	APIPrefix = "/api"
	// DefaultTimeout は1リクエストあたりの待機上限。
	DefaultTimeout = 5000 * time.Millisecond
	// DefaultFallbackMessage はサーバーがerrorフィールドを返さなかった場合の通知文言。
	DefaultFallbackMessage = "Request Failed"
	// DefaultLoginPath は401を受けたときの強制遷移先。
	DefaultLoginPath = "/login"
	// HeaderRequestID はリクエストごとに付与する識別子のヘッダー名。
	HeaderRequestID = "X-Request-ID"
)

// Notifier は失敗時の通知を表示する。戻り値は持たない。
type Notifier interface {
	Notify(message string)
}

// NotifierFunc は関数をNotifierとして使うためのアダプタ。
type NotifierFunc func(message string)

// Notify はf(message)を呼ぶ。
func (f NotifierFunc) Notify(message string) { f(message) }

// Redirector はメモリ上の画面状態を破棄してpathへ遷移させる。
type Redirector interface {
	HardRedirect(ctx context.Context, path string)
}

// Client はコンソールの全画面が共有するAPIクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL はAPIルートまで含めたベースURL（例: "http://localhost:8080/api"）。
	baseURL string
	// session はトークンの読み書き先。
	session *session.Session
	// notifier は失敗通知の表示先。
	notifier Notifier
	// redirector は401時の強制遷移先。nilの場合は遷移しない。
	redirector Redirector
	// fallbackMessage はerrorフィールドが無い場合の通知文言を返す。
	fallbackMessage func() string
	// loginPath は401時の遷移先パス。
	loginPath string
}

// Option はClientの設定を変更する。
type Option func(*Client)

// WithTimeout は待機上限を変更する。テスト以外では既定値を使う。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient は内部のHTTPクライアントを差し替える。
// 渡されたクライアントは複製して使い、タイムアウトは既定値が上書きされる。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		cp.Timeout = c.httpClient.Timeout
		c.httpClient = &cp
	}
}

// WithNotifier は失敗通知の表示先を設定する。
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithRedirector は401時の強制遷移先を設定する。
func WithRedirector(r Redirector) Option {
	return func(c *Client) { c.redirector = r }
}

// WithFallbackMessage はerrorフィールドが無い場合の通知文言を変更する。
func WithFallbackMessage(msg string) Option {
	return func(c *Client) { c.fallbackMessage = func() string { return msg } }
}

// WithFallbackFunc は通知文言を送信のたびにfnから取得する。
// 表示言語の切り替えに追従させる場合に使う。
func WithFallbackFunc(fn func() string) Option {
	return func(c *Client) { c.fallbackMessage = fn }
}

// WithLoginPath は401時の遷移先パスを変更する。
func WithLoginPath(path string) Option {
	return func(c *Client) { c.loginPath = path }
}

// New は新しいRequest Gatewayを生成する。
// baseURLにはバックエンドのオリジン（例: "http://localhost:8080"）を指定し、
// パスは全て /api からの相対パスとして扱う。
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:         strings.TrimRight(baseURL, "/") + APIPrefix,
		session:         sess,
		notifier:        NotifierFunc(logNotify),
		fallbackMessage: func() string { return DefaultFallbackMessage },
		loginPath:       DefaultLoginPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL はAPIルートまで含めたベースURLを返す。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send はリクエストを送信し、成功時はレスポンスボディだけを返す。
// ステータスコードやヘッダーは呼び出し元に見せない。
// 失敗時は通知を表示したうえで *Error を返す。envelopeの構築に失敗した場合も
// OutcomeTransport の *Error を返し、Err に元のエラーを変更せずに持たせる。
func (c *Client) Send(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, c.fail(ctx, "", &Error{
			Outcome: OutcomeTransport,
			Method:  method,
			Path:    path,
			Err:     err,
		})
	}
	c.authorize(ctx, req)
	requestID := req.Header.Get(HeaderRequestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(ctx, requestID, &Error{
			Outcome: classify(0, err),
			Method:  method,
			Path:    path,
			Err:     err,
		})
	}
	defer resp.Body.Close()

	payload, readErr := io.ReadAll(resp.Body)
	outcome := classify(resp.StatusCode, nil)
	if outcome == OutcomeSuccess {
		if readErr != nil {
			return nil, c.fail(ctx, requestID, &Error{
				Outcome:    classify(0, readErr),
				Method:     method,
				Path:       path,
				StatusCode: resp.StatusCode,
				Err:        readErr,
			})
		}
		return payload, nil
	}

	// ボディを読み切れなかった場合もステータスで分類し、原因はErrに残す。
	return nil, c.fail(ctx, requestID, &Error{
		Outcome:    outcome,
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    extractMessage(payload),
		Body:       payload,
		Err:        readErr,
	})
}

// GetJSON は指定パスにGETリクエストを送信し、レスポンスボディをresultにデシリアライズする。
func (c *Client) GetJSON(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信する。
func (c *Client) PostJSON(ctx context.Context, path string, body, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

// PutJSON は指定パスにJSONボディでPUTリクエストを送信する。
func (c *Client) PutJSON(ctx context.Context, path string, body, result any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, result)
}

// DeleteJSON は指定パスにDELETEリクエストを送信する。
func (c *Client) DeleteJSON(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, result)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	payload, err := c.Send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}
	return nil
}

// newRequest はenvelopeを構築する。失敗時のエラーは包まずに返す。
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	return req, nil
}

// authorize はトークンがあればAuthorizationヘッダーを付与する。
// トークンが無い場合はそのまま送信し、拒否するかどうかはサーバーに任せる。
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.session == nil {
		return
	}
	if token, ok := c.session.Token(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// fail はOutcomeに対応するアクションを順に実行し、eをそのまま返す。
// requestIDはenvelopeを構築できなかった場合に空になる。
func (c *Client) fail(ctx context.Context, requestID string, e *Error) error {
	log.Printf("[Gateway] リクエスト失敗: request_id=%s %v", requestID, e)

	// タイムアウト後もアクションを完了させるため呼び出し元のキャンセルは引き継がない。
	actx := context.WithoutCancel(ctx)
	for _, action := range actionsFor(e.Outcome) {
		switch action {
		case ActionClearCredential:
			if c.session != nil {
				if err := c.session.Clear(actx); err != nil {
					log.Printf("[Gateway] トークンの削除に失敗: %v", err)
				}
			}
		case ActionRedirectLogin:
			if c.redirector != nil {
				c.redirector.HardRedirect(actx, c.loginPath)
			}
		case ActionNotify:
			c.notifier.Notify(c.messageFor(e))
		}
	}
	return e
}

// messageFor は通知に表示する文言を返す。
func (c *Client) messageFor(e *Error) string {
	if e.Message != "" {
		return e.Message
	}
	return c.fallbackMessage()
}

func logNotify(message string) {
	log.Printf("[Gateway] %s", message)
}
