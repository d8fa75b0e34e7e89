// 管理コンソールのエントリポイント。
// 標準入力からコマンドを読み、管理APIを呼び出して結果を端末に描画する。
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/mailforward/internal/console"
)

func main() {
	cfg := console.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := console.Open(ctx, cfg, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("コンソールの初期化に失敗: %v", err)
	}

	runErr := app.Shell.Run(ctx, os.Stdin)
	if err := app.Close(); err != nil {
		log.Printf("状態DBのクローズに失敗: %v", err)
	}
	if runErr != nil && ctx.Err() == nil {
		log.Printf("コンソールが異常終了しました: %v", runErr)
		os.Exit(1)
	}
}
