// Package session はコンソールプロセス内で唯一のセッション資格情報を管理する。
//
// ベアラートークンと表示言語を永続化されたキーバリューストアに保持し、
// Request GatewayとNavigation Guardの双方に同じSessionを注入して使う。
// トークンの有効期限はクライアント側では検証せず、失効はサーバーの401応答で知る。
package session
