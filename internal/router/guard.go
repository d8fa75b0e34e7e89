package router

// DecisionKind はガードの判定種別。
type DecisionKind int

const (
	// Allow は遷移をそのまま許可する。
	Allow DecisionKind = iota
	// Redirect は遷移を取り消して別のルートへ遷移させる。
	Redirect
)

// Decision はガードの判定結果。
type Decision struct {
	// Kind は判定種別。
	Kind DecisionKind
	// To はRedirectの場合の遷移先パス。
	To string
}

// AllowNavigation は遷移を許可する判定を返す。
func AllowNavigation() Decision {
	return Decision{Kind: Allow}
}

// RedirectTo はpathへ遷移させる判定を返す。
func RedirectTo(path string) Decision {
	return Decision{Kind: Redirect, To: path}
}

// Guard は遷移先・遷移元・セッションの有無から遷移の可否を決める。
// 副作用を持ってはならない。
type Guard func(to, from Route, hasSession bool) Decision

// RequireSession はログイン画面以外への遷移にトークンを要求するガード。
// トークンの有効性は確認せず、失効は最初のAPI呼び出しの401で検出する。
func RequireSession(to, _ Route, hasSession bool) Decision {
	if to.Name != NameLogin && !hasSession {
		return RedirectTo(PathLogin)
	}
	return AllowNavigation()
}
