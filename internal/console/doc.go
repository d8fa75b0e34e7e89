// Package console は管理コンソールの対話シェルを提供する。
//
// Request Gateway・ナビゲーションガード・セッション・表示言語を組み合わせ、
// ドメイン・転送ルール・転送ログの各画面を端末上に描画する。
package console
