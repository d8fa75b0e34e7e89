// Package devapi は管理APIの開発用スタンドインを提供する。
//
// コンソールの開発と結合テストのために、ログイン（JWT発行）とドメイン・転送ルール・
// 転送ログの管理エンドポイントをSQLite上に実装する。メールの受信と転送は行わない。
package devapi
