// Package httpclient はコンソールの全画面が共有するRequest Gatewayを提供する。
//
// 送信前にセッションのベアラートークンを付与し、成功時はレスポンスボディだけを
// 呼び出し元に返す。失敗時は通知を1回出したうえで元のエラーを返し、
// 401を受けた場合はトークンを削除してログイン画面へ強制遷移させる。
// 認証と共通エラー処理をここに集約し、各画面では重複させない。
package httpclient
