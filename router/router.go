package router

import (
	"locafesta/config"
	"locafesta/controllers"
	"locafesta/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Initialize wires all routes and middlewares: public routes + authenticated
// routes + "validated" routes (Authorizer) + admin routes (Adminizer).
func Initialize(r *gin.Engine, cfg config.Configuration) {
	_ = cfg

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	// Gatilho do sweep: chamado por agendador externo (cron HTTP) com token
	// de serviço, sem identidade de usuário final.
	api.POST("/eventos/sweep", Logger(), controllers.RunStatusSweep)

	// Public (no auth)
	api.POST("/users", Logger(), controllers.CreateUser)
	api.POST("/login", Logger(), controllers.Login)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	// Validated routes (token + active user)
	validated := auth.Group("")
	validated.Use(Authorizer())

	// Example protected endpoint (useful for smoke tests)
	validated.GET("/me", Logger(), controllers.Me)

	// Eventos
	validated.GET("/eventos", Logger(), controllers.GetEventos)
	validated.GET("/eventos/:id", Logger(), controllers.GetEventoByID)
	validated.POST("/eventos", Logger(), controllers.CreateEvento)
	validated.PUT("/eventos/:id", Logger(), controllers.UpdateEvento)

	// Timeline do evento
	validated.GET("/eventos/:id/timeline", Logger(), controllers.GetEventoTimeline)
	validated.POST("/eventos/:id/timeline", Logger(), controllers.CreateTimelineEntry)

	// Dashboard
	validated.GET("/eventos/dashboard/transicoes-per-day", Logger(), controllers.GetTransicoesPerDay)
	validated.GET("/eventos/dashboard/status-counts", Logger(), controllers.GetEventosStatusCounts)

	// Clientes
	validated.GET("/clientes", Logger(), controllers.GetClientes)
	validated.GET("/clientes/:id", Logger(), controllers.GetClienteByID)
	validated.POST("/clientes", Logger(), controllers.CreateCliente)
	validated.PUT("/clientes/:id", Logger(), controllers.UpdateCliente)

	// Admin routes
	admin := validated.Group("")
	admin.Use(Adminizer())

	admin.POST("/eventos/:id/archive", Logger(), controllers.ArchiveEvento)

	log.Info().Msg("routes initialized")
}
