package console

import (
	"os"
	"path/filepath"
)

// Config はコンソールの設定。
type Config struct {
	// APIURL は管理APIのオリジン。/api はRequest Gatewayが付与する。
	APIURL string
	// StateDB はトークンと表示言語を保存するSQLiteファイルのパス。
	StateDB string
	// Locale が空でなければ起動時に表示言語を切り替える。
	Locale string
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig() Config {
	return Config{
		APIURL:  getEnvOr("MAILFWD_API_URL", "http://localhost:8080"),
		StateDB: getEnvOr("MAILFWD_STATE_DB", defaultStateDB()),
		Locale:  os.Getenv("MAILFWD_LOCALE"),
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func defaultStateDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mailforward", "console.db")
	}
	return filepath.Join(home, ".mailforward", "console.db")
}
