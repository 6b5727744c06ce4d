package di

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/omarluq/authgate/internal/server"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 30 * time.Second

// ServerService wraps the HTTP server.
type ServerService struct {
	Server *server.Server
}

// NewHTTPServer creates the HTTP server with every route wired.
func NewHTTPServer(i do.Injector) (*ServerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	logger := do.MustInvoke[*LoggerService](i).Logger
	storeSvc := do.MustInvoke[*UserStoreService](i)
	sessSvc := do.MustInvoke[*SessionService](i)
	authSvc := do.MustInvoke[*AuthService](i)

	handler := server.SetupRoutes(server.Deps{
		Logger:   *logger,
		Config:   cfgSvc.Runtime(),
		Auth:     authSvc.Current,
		Store:    storeSvc.Store,
		Sessions: sessSvc.Registry,
	})

	cfg := cfgSvc.Get()
	srv := server.NewServer(
		cfg.Server.Listen,
		handler,
		cfg.Server.EnableHTTP2,
		cfg.Server.GetTimeoutOption(),
	)

	return &ServerService{Server: srv}, nil
}

// Shutdown implements do.ShutdownerWithError.
func (s *ServerService) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.Server.Shutdown(ctx)
}
