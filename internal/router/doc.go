// Package router はコンソールのルート表とNavigation Guardを提供する。
//
// 全ての遷移（起動時の初回遷移と強制遷移を含む）はガードを通過してから確定する。
// ガードはトークンの有無だけを見る純粋な関数であり、通信は行わない。
package router
