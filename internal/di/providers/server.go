package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/kripanidhi/byajbook-server/internal/api"
	"github.com/kripanidhi/byajbook-server/internal/config"
	"github.com/kripanidhi/byajbook-server/internal/logger"
	"github.com/kripanidhi/byajbook-server/internal/service"
	"github.com/kripanidhi/byajbook-server/internal/upload"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	accessService := do.MustInvoke[*service.AccessService](i)
	bookService := do.MustInvoke[*service.BookService](i)
	staffService := do.MustInvoke[*service.StaffService](i)
	personService := do.MustInvoke[*service.PersonService](i)
	uploadService := do.MustInvoke[*service.UploadService](i)
	uploadStorage := do.MustInvoke[*upload.Storage](i)

	handler := api.NewServer(
		authService,
		accessService,
		bookService,
		staffService,
		personService,
		uploadService,
		uploadStorage,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
