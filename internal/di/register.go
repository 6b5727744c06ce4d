package di

import "github.com/samber/do/v2"

// RegisterSingletons registers all service providers as singletons.
// Services are registered in dependency order:
// 1. Config (no dependencies)
// 2. Logger (depends on Config)
// 3. UserStore (depends on Config, Logger)
// 4. Sessions (depends on Logger)
// 5. Auth (depends on Config, Logger, UserStore, Sessions)
// 6. Server (depends on all above services).
func RegisterSingletons(i do.Injector) {
	do.Provide(i, NewConfig)
	do.Provide(i, NewLogger)
	do.Provide(i, NewUserStore)
	do.Provide(i, NewSessions)
	do.Provide(i, NewAuth)
	do.Provide(i, NewHTTPServer)
}
