package providers

import (
	"github.com/samber/do/v2"

	"github.com/kripanidhi/byajbook-server/internal/auth"
	"github.com/kripanidhi/byajbook-server/internal/config"
	"github.com/kripanidhi/byajbook-server/internal/logger"
	"github.com/kripanidhi/byajbook-server/internal/service"
	"github.com/kripanidhi/byajbook-server/internal/upload"
	"github.com/kripanidhi/byajbook-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, validator, log.Logger), nil
}

// ProvideAccessService provides the branch access service.
func ProvideAccessService(i do.Injector) (*service.AccessService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAccessService(storeHandle.Store, log.Logger), nil
}

// ProvideBookService provides the branch book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideStaffService provides the staff management service.
func ProvideStaffService(i do.Injector) (*service.StaffService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStaffService(storeHandle.Store, validator, log.Logger), nil
}

// ProvidePersonService provides the borrower service.
func ProvidePersonService(i do.Injector) (*service.PersonService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPersonService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideUploadService provides the KYC document upload service.
func ProvideUploadService(i do.Injector) (*service.UploadService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storage := do.MustInvoke[*upload.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUploadService(storage, cfg.Upload.MaxFileSize, log.Logger), nil
}
