package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dealroom-api/pkg/jwt"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Closer       closer
	Readiness    readinessChecker
	History      closeRunLister
	Certificates certificateGetter
	JWTSecret    string
	Logger       *logger.Logger
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token con rol ops o admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleOps, jwt.RoleAdmin))

	closeHandler := NewCloseHandler(deps.Closer, deps.Readiness, deps.Logger)
	api.Post("/deals/:id/close", closeHandler.CloseDeal)
	api.Get("/deals/:id/readiness", closeHandler.DealReadiness)
	api.Post("/termsheets/:id/close", closeHandler.CloseTermsheet)

	runHandler := NewCloseRunHandler(deps.History)
	api.Get("/close-runs", runHandler.List)

	certHandler := NewCertificateHandler(deps.Certificates)
	api.Get("/subscriptions/:id/certificate", certHandler.Download)
}
