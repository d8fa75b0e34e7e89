package adminapi

import "time"

// Domain は受信対象として管理するドメイン。
type Domain struct {
	// ID はドメインの識別子。
	ID uint `json:"id"`
	// Name はドメイン名。
	Name string `json:"name"`
	// CreatedAt は作成日時。
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt は更新日時。
	UpdatedAt time.Time `json:"updated_at"`
}

// Account は宛先パターンと転送先の組からなる転送ルール。
type Account struct {
	// ID はルールの識別子。
	ID uint `json:"id"`
	// Pattern は宛先アドレスに照合する正規表現。
	Pattern string `json:"pattern"`
	// ForwardTo は転送先アドレス。複数の場合はカンマ区切り。
	ForwardTo string `json:"forward_to"`
	// Description は説明。
	Description string `json:"description"`
	// HitCount はルールに一致した回数。
	HitCount int64 `json:"hit_count"`
	// CreatedAt は作成日時。
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt は更新日時。
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountInput は転送ルールの作成・更新時に送る内容。
type AccountInput struct {
	Pattern     string `json:"pattern"`
	ForwardTo   string `json:"forward_to"`
	Description string `json:"description"`
}

// Log は1通分の転送記録。
type Log struct {
	ID        uint      `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	Raw       string    `json:"raw"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	ClientIP  string    `json:"client_ip"`
	CreatedAt time.Time `json:"created_at"`
}

// LogPage は転送ログの1ページ分。
type LogPage struct {
	// Data は新しい順の転送記録。
	Data []Log `json:"data"`
	// Total は全件数。
	Total int64 `json:"total"`
	// Page はページ番号（1始まり）。
	Page int `json:"page"`
}
