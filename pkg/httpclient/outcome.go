package httpclient

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Outcome は1回のリクエストの結末の分類。
type Outcome int

const (
	// OutcomeSuccess は2xxで応答を受け取ったことを表す。
	OutcomeSuccess Outcome = iota
	// OutcomeUnauthorized は401でトークンが拒否されたことを表す。
	OutcomeUnauthorized
	// OutcomeRejected は401以外の4xx/5xxで拒否されたことを表す。
	OutcomeRejected
	// OutcomeTimeout は待機上限までに応答が無かったことを表す。
	OutcomeTimeout
	// OutcomeTransport は応答を受け取る前に通信が失敗したことを表す。
	OutcomeTransport
)

// String は分類名を返す。
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "transport"
	}
}

// Action は結末に応じてGatewayが実行する遷移アクション。
type Action int

const (
	// ActionClearCredential はセッションのトークンを削除する。
	ActionClearCredential Action = iota + 1
	// ActionRedirectLogin はログイン画面へ強制遷移させる。
	ActionRedirectLogin
	// ActionNotify は利用者向けの通知を1回表示する。
	ActionNotify
)

// classify はステータスコードと通信エラーから結末を決める。
// errが非nilの場合はレスポンスが無いものとして扱う。
func classify(status int, err error) Outcome {
	if err != nil {
		if isTimeout(err) {
			return OutcomeTimeout
		}
		return OutcomeTransport
	}
	switch {
	case status >= 200 && status < 300:
		return OutcomeSuccess
	case status == http.StatusUnauthorized:
		return OutcomeUnauthorized
	default:
		return OutcomeRejected
	}
}

// actionsFor は結末ごとのアクションを実行順に返す。
// Authenticated -> Unauthenticated の遷移は401でのみ起きる。
func actionsFor(o Outcome) []Action {
	switch o {
	case OutcomeSuccess:
		return nil
	case OutcomeUnauthorized:
		return []Action{ActionClearCredential, ActionRedirectLogin, ActionNotify}
	default:
		return []Action{ActionNotify}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
