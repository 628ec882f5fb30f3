package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	dbpkg "locafesta/db"
	"locafesta/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog/log"
)

// GET /api/eventos
// Query params:
// - status=orcamento|confirmado|em_preparacao|em_execucao|finalizado|cancelado (optional)
// - archived=true|false (optional, default: false)
// - q=texto (optional) -> busca em nome + local
// - sort_by=data_inicio|created_at|id (optional, default: data_inicio)
// - order=asc|desc (optional, default: asc)
// - limit (optional, default: 200, max: 500)
// - offset (optional, default: 0)
func GetEventos(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	q := strings.TrimSpace(c.Query("q"))
	sortBy := strings.TrimSpace(c.DefaultQuery("sort_by", "data_inicio"))
	order := strings.ToLower(strings.TrimSpace(c.DefaultQuery("order", "asc")))
	archived := strings.EqualFold(c.DefaultQuery("archived", "false"), "true")

	limit := clampInt(queryInt(c, "limit", 200), 1, 500)
	offset := clampInt(queryInt(c, "offset", 0), 0, 1_000_000)

	// whitelist sort fields
	switch sortBy {
	case "data_inicio", "created_at", "id":
	default:
		sortBy = "data_inicio"
	}
	if order != "desc" {
		order = "asc"
	}

	query := db.Model(&models.Evento{}).Where("archived = ?", archived)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("nome LIKE ? OR local LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var eventos []models.Evento
	if err := query.Order(fmt.Sprintf("%s %s", sortBy, order)).
		Limit(limit).
		Offset(offset).
		Find(&eventos).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"eventos": eventos,
	})
}

// GET /api/eventos/:id
//
// Além de devolver o evento, aproveita a visualização para corrigir um status
// vencido (sync por visualização): se o relógio já cruzou uma borda da janela,
// persiste a transição antes de responder. Melhor esforço; falha aqui nunca
// vira erro para o usuário, no máximo o status devolvido fica defasado até o
// próximo sweep.
func GetEventoByID(c *gin.Context) {
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

	if user, logged := GetUserLogged(c); logged {
		SyncEventoStatus(db, user, &evento, time.Now())
	}

	RespondSuccess(c, gin.H{"evento": evento})
}

// SyncEventoStatus aplica o predicado compartilhado sobre o evento carregado
// e persiste a transição devida, se houver. Exige um ator autenticado (não
// roda em contexto anônimo). Qualquer erro é logado e engolido.
func SyncEventoStatus(db *gorm.DB, user models.User, evento *models.Evento, now time.Time) {
	if evento == nil || evento.Archived {
		return
	}

	transicao, ok, err := models.ProximaTransicao(*evento, now)
	if err != nil {
		log.Warn().Err(err).Int64("evento_id", evento.ID).
			Msg("sync: evento com agenda inválida")
		return
	}
	if !ok {
		return
	}

	// mesma guarda otimista do sweep: outra sessão (ou o próprio sweep)
	// pode ter aplicado a transição primeiro
	res := db.Model(&models.Evento{}).
		Where("id = ? AND status = ?", evento.ID, evento.Status).
		Update("status", transicao.NovoStatus)
	if res.Error != nil {
		log.Error().Err(res.Error).Int64("evento_id", evento.ID).
			Msg("sync: erro ao atualizar status")
		return
	}
	if res.RowsAffected == 0 {
		// alguém chegou antes; recarrega para responder o status atual
		_ = db.First(evento, evento.ID).Error
		return
	}

	evento.Status = transicao.NovoStatus

	entrada := models.NovaEntradaAutomatica(evento.ID, transicao, models.TIMELINE_ATOR_SYNC, now)
	if err := db.Create(&entrada).Error; err != nil {
		log.Error().Err(err).Int64("evento_id", evento.ID).
			Msg("sync: erro ao gravar timeline")
	}

	log.Info().Int64("evento_id", evento.ID).Str("status", transicao.NovoStatus).
		Str("usuario", user.Email).Msg("sync: status corrigido na visualização")
}

// POST /api/eventos
func CreateEvento(c *gin.Context) {
	var evento models.Evento
	if err := c.Bind(&evento); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if missing := evento.MissingFields(); missing != "" {
		RespondError(c, missing+" é obrigatório", http.StatusBadRequest)
		return
	}
	if evento.Status == "" {
		evento.Status = models.EVENTO_STATUS_ORCAMENTO
	}
	if !isStatusValido(evento.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}
	if _, _, err := evento.Janela(); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	evento.ID = 0
	evento.Archived = false
	if err := db.Create(&evento).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondCreated(c, gin.H{"evento": evento})
}

// PUT /api/eventos/:id
func UpdateEvento(c *gin.Context) {
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

	var in models.Evento
	if err := c.Bind(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if missing := in.MissingFields(); missing != "" {
		RespondError(c, missing+" é obrigatório", http.StatusBadRequest)
		return
	}
	if in.Status != "" && !isStatusValido(in.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}

	evento.ClienteID = in.ClienteID
	evento.Nome = in.Nome
	evento.Local = in.Local
	evento.DataInicio = in.DataInicio
	evento.HoraInicio = in.HoraInicio
	evento.DataFim = in.DataFim
	evento.HoraFim = in.HoraFim
	evento.Observacoes = in.Observacoes
	if in.Status != "" {
		evento.Status = in.Status
	}

	if _, _, err := evento.Janela(); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := db.Save(&evento).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"evento": evento})
}

// POST /api/eventos/:id/archive
// Arquiva (ou desarquiva, com ?undo=true) o evento. Evento arquivado sai do
// alcance do sweep e do sync.
func ArchiveEvento(c *gin.Context) {
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

	undo := strings.EqualFold(c.DefaultQuery("undo", "false"), "true")
	if err := db.Model(&evento).Update("archived", !undo).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	evento.Archived = !undo
	RespondSuccess(c, gin.H{"evento": evento})
}

func isStatusValido(status string) bool {
	switch status {
	case models.EVENTO_STATUS_ORCAMENTO,
		models.EVENTO_STATUS_CONFIRMADO,
		models.EVENTO_STATUS_EM_PREPARACAO,
		models.EVENTO_STATUS_EM_EXECUCAO,
		models.EVENTO_STATUS_FINALIZADO,
		models.EVENTO_STATUS_CANCELADO:
		return true
	}
	return false
}
