package controllers

import (
	"net/http"
	"time"

	dbpkg "locafesta/db"
	"locafesta/models"

	"github.com/gin-gonic/gin"
)

// GET /api/eventos/:id/timeline
// Histórico append-only do evento, mais recente primeiro.
func GetEventoTimeline(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var evento models.Evento
	if err := db.First(&evento, id).Error; err != nil {
		RespondError(c, "evento não encontrado", http.StatusNotFound)
		return
	}

	var entradas []models.TimelineEntry
	if err := db.Where("evento_id = ?", evento.ID).
		Order("data desc, id desc").
		Find(&entradas).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"evento_id": evento.ID, "timeline": entradas})
}

type createTimelineRequest struct {
	Tipo      string `json:"tipo" form:"tipo"`
	Descricao string `json:"descricao" form:"descricao"`
}

// POST /api/eventos/:id/timeline
// Entrada manual (anotação de um usuário). Entradas automáticas nascem do
// sweep/sync, nunca por aqui.
func CreateTimelineEntry(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req createTimelineRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Descricao == "" {
		RespondError(c, "descricao é obrigatória", http.StatusBadRequest)
		return
	}
	if req.Tipo == "" {
		req.Tipo = models.TIMELINE_TIPO_NOTA
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var evento models.Evento
	if err := db.First(&evento, id).Error; err != nil {
		RespondError(c, "evento não encontrado", http.StatusNotFound)
		return
	}

	now := time.Now()
	entrada := models.TimelineEntry{
		EventoID:  evento.ID,
		Tipo:      req.Tipo,
		Descricao: req.Descricao,
		Usuario:   user.Name,
		Ator:      models.TIMELINE_ATOR_USUARIO,
		Data:      &now,
	}
	if err := db.Create(&entrada).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondCreated(c, gin.H{"entrada": entrada})
}
