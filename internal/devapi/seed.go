package devapi

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nao1215/mailforward/internal/adminapi"
)

// Seed はDBが空の場合にサンプルのドメイン・転送ルール・転送ログを投入する。
// 既にデータがある場合は何もしない。
func Seed(ctx context.Context, store *Store) error {
	empty, err := store.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	if _, err := store.CreateDomain(ctx, "example.com"); err != nil {
		return err
	}
	accounts := []adminapi.AccountInput{
		{Pattern: `^info@example\.com$`, ForwardTo: "owner@example.org", Description: "問い合わせ窓口"},
		{Pattern: `^.*@example\.com$`, ForwardTo: "catchall@example.org", Description: "catch-all"},
	}
	for _, a := range accounts {
		if _, err := store.CreateAccount(ctx, a); err != nil {
			return err
		}
	}

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 45; i++ {
		l := adminapi.Log{
			From:      fmt.Sprintf("sender%02d@example.net", i),
			To:        "info@example.com",
			Subject:   fmt.Sprintf("sample message %d", i),
			Status:    "success",
			ClientIP:  "127.0.0.1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if i%7 == 0 {
			l.Status = "failed"
			l.Error = "relay refused"
		}
		if _, err := store.InsertLog(ctx, l); err != nil {
			return err
		}
	}
	log.Printf("[DevAPI] サンプルデータを投入しました")
	return nil
}
