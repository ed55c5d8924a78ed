package providers

import (
	"github.com/samber/do/v2"

	"github.com/kripanidhi/byajbook-server/internal/config"
	"github.com/kripanidhi/byajbook-server/internal/logger"
	"github.com/kripanidhi/byajbook-server/internal/upload"
)

// ProvideUploadStorage provides the KYC document storage.
func ProvideUploadStorage(i do.Injector) (*upload.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := upload.NewStorage(cfg.Upload.BasePath)
	if err != nil {
		return nil, err
	}

	log.Info("Upload storage ready", "path", storage.BasePath())

	return storage, nil
}
