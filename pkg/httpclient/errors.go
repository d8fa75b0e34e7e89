package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized はサーバーがトークンを拒否したことを表す。
	ErrUnauthorized = errors.New("認証に失敗しました")
	// ErrTimeout は待機上限を超えてリクエストを打ち切ったことを表す。
	ErrTimeout = errors.New("リクエストがタイムアウトしました")
)

// Error はGatewayが呼び出し元へ返す失敗。
// 呼び出し元は Message や StatusCode を使って画面固有の処理を追加できる。
type Error struct {
	// Outcome は失敗の分類。
	Outcome Outcome
	// Method はHTTPメソッド。
	Method string
	// Path はAPIルートからの相対パス。
	Path string
	// StatusCode はHTTPステータスコード。応答が無い場合は0。
	StatusCode int
	// Message はサーバーが返したerrorフィールド。無い場合は空文字列。
	Message string
	// Body はサーバーが返したレスポンスボディ。
	Body []byte
	// Err は通信層のエラー。envelopeの構築やボディの読み取りに失敗した場合も設定される。
	Err error
}

// Error はエラーメッセージを返す。
func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Outcome, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: HTTPエラー: status=%d, error=%s", e.Method, e.Path, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s %s: HTTPエラー: status=%d", e.Method, e.Path, e.StatusCode)
	}
}

// Unwrap は通信層のエラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// Is は errors.Is(err, ErrUnauthorized) と errors.Is(err, ErrTimeout) を分類で判定する。
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Outcome == OutcomeUnauthorized
	case ErrTimeout:
		return e.Outcome == OutcomeTimeout
	}
	return false
}

// errorPayload は失敗時のレスポンスボディの形。
type errorPayload struct {
	Error string `json:"error"`
}

// extractMessage はレスポンスボディからerrorフィールドを取り出す。
// JSONでない場合やフィールドが無い場合は空文字列を返す。
func extractMessage(body []byte) string {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}
	return strings.TrimSpace(p.Error)
}
