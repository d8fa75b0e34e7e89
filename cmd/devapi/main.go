// 開発用管理APIのエントリポイント。
// コンソールの開発と結合テストのため、ログインと管理エンドポイントをSQLite上で提供する。
package main

import (
	"context"
	"log"

	"github.com/nao1215/mailforward/internal/devapi"
)

func main() {
	cfg := devapi.LoadConfig()

	server, err := devapi.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("devapiサーバーの初期化に失敗: %v", err)
	}
	defer server.Close()

	log.Printf("devapiを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("devapiの起動に失敗: %v", err)
	}
}
