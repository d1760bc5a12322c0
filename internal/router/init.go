package router

import (
	userapp "github.com/gimmeapp/auth-service/internal/application"
	"github.com/gimmeapp/auth-service/internal/container"
	handlers "github.com/gimmeapp/auth-service/internal/interface/http"
	"github.com/gimmeapp/auth-service/internal/router/modules"
)

// InitModules builds the application services from the container singletons
// and registers every feature module with the router registry. Call once
// during startup after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	repos := container.GetRepos()
	logger := container.GetLogger()

	var mail userapp.EmailPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	userSvc := userapp.NewUserService(
		repos,
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
	)

	authSvc := userapp.NewAuthService(
		repos,
		container.GetProviders(),
		container.GetJWT(),
		container.GetRedis(),
		logger,
		mail,
		userSvc,
	)

	verifySvc := userapp.NewVerificationService(
		repos,
		userapp.NewRedisCodeStore(container.GetRedis()),
		mail,
		logger,
		userSvc,
	)
	verifySvc.CodeTTL = cfg.VerificationCodeTTL

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), container.GetJWT()))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure), container.GetJWT()))
	r.Add(modules.NewVerificationModule(handlers.NewVerificationHandler(verifySvc, logger), container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
