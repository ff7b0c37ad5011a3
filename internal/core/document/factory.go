package document

import (
	"fmt"

	"go.uber.org/zap"

	"recipe-discovery/internal/infrastructure/config"
	"recipe-discovery/internal/pkg/common"
)

// NewFetcher 依設定建立文件庫讀取器
func NewFetcher(cfg config.DocumentStoreConfig) (Fetcher, error) {
	switch cfg.Backend {
	case config.DocumentBackendREST:
		common.LogInfo("使用 REST 文件庫",
			zap.String("base_url", cfg.BaseURL),
			zap.String("credential", config.MaskSecret(cfg.APIKey)),
		)
		return NewRESTFetcher(cfg), nil
	case config.DocumentBackendMemory, "":
		if cfg.SeedFile == "" {
			common.LogWarn("記憶體文件庫沒有初始資料")
			return NewMemoryFetcher(nil), nil
		}
		f, err := LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown document store backend %q", cfg.Backend)
	}
}
