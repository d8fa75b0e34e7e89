// Package middleware は開発用管理APIで使用するGinミドルウェアを提供する。
//
// JWTの発行と検証、リクエストIDの伝播、パニックリカバリ、CORS設定、
// ログイン試行の回数制限を含む。
package middleware
