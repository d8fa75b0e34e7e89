package devapi

import (
	"os"
	"strings"
	"time"
)

// Config はdevapiサーバーの設定。
type Config struct {
	// Port はリッスンポート。
	Port string
	// DBPath はSQLiteファイルのパス。":memory:" も指定できる。
	DBPath string
	// Password は管理者パスワード。
	Password string
	// JWTSecret はトークン署名用の秘密鍵。
	JWTSecret string
	// TokenTTL は発行するトークンの有効期間。
	TokenTTL time.Duration
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
	// LoginLimit はクライアントIPごとのログイン試行の上限回数。
	LoginLimit int
	// LoginWindow はログイン試行を数える時間幅。
	LoginWindow time.Duration
	// Seed が真の場合、空のDBにサンプルデータを投入する。
	Seed bool
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig() Config {
	ttl, err := time.ParseDuration(getEnvOr("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return Config{
		Port:           getEnvOr("PORT", "8080"),
		DBPath:         getEnvOr("DEVAPI_DB", "devapi.db"),
		Password:       getEnvOr("PASSWORD", "admin123"),
		JWTSecret:      getEnvOr("JWT_SECRET", "dev-secret-key"),
		TokenTTL:       ttl,
		AllowedOrigins: splitList(getEnvOr("FRONTEND_URL", "http://localhost:5173")),
		LoginLimit:     5,
		LoginWindow:    time.Minute,
		Seed:           getEnvOr("DEVAPI_SEED", "") == "true",
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
