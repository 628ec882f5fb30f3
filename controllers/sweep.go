package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	dbpkg "locafesta/db"
	"locafesta/workers"

	"github.com/gin-gonic/gin"
)

var sweepToken = ""

// SetSweepToken é chamado no main com o valor do config. Vazio desabilita o
// endpoint (só o ticker interno varre).
func SetSweepToken(token string) {
	sweepToken = token
}

// POST /api/eventos/sweep
//
// Gatilho para um agendador externo (cron HTTP). Sem parâmetros; autentica
// por token de serviço no header X-Sweep-Token, não por usuário final.
// Resposta: { eventos_iniciados, eventos_concluidos, timestamp }.
func RunStatusSweep(c *gin.Context) {
	if sweepToken == "" {
		RespondError(c, "sweep desabilitado", http.StatusForbidden)
		return
	}

	got := strings.TrimSpace(c.GetHeader("X-Sweep-Token"))
	if subtle.ConstantTimeCompare([]byte(got), []byte(sweepToken)) != 1 {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	result := workers.SweepDueEventos(db, time.Now())
	RespondSuccess(c, result)
}
