package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dbpkg "locafesta/db"
	"locafesta/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)

	require.NoError(t, dbpkg.AutoMigrate(db))
	return db
}

// setupRouter monta um engine mínimo com o DB no contexto e, opcionalmente,
// um usuário "logado" (pulando o AuthRequired de verdade).
func setupRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(db))
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set(ctxUserKey, *user)
			c.Next()
		})
	}
	r.GET("/api/eventos/:id", GetEventoByID)
	r.POST("/api/eventos", CreateEvento)
	r.POST("/api/eventos/sweep", RunStatusSweep)
	return r
}

func usuarioTeste() *models.User {
	return &models.User{ID: 7, Name: "Maria", Email: "maria@locafesta.com", Status: models.USER_STATUS_AVAILABLE}
}

// janelaEmTorno devolve uma agenda que contém o instante dado.
func janelaEmTorno(now time.Time) (string, string, string, string) {
	inicio := now.Add(-time.Hour)
	fim := now.Add(time.Hour)
	return inicio.Format("2006-01-02"), inicio.Format("15:04"),
		fim.Format("2006-01-02"), fim.Format("15:04")
}

func TestGetEventoByIDSincronizaStatus(t *testing.T) {
	db := openTestDB(t)

	di, hi, df, hf := janelaEmTorno(time.Now())
	evento := models.Evento{
		Nome: "Festa junina", Status: models.EVENTO_STATUS_CONFIRMADO,
		DataInicio: di, HoraInicio: hi, DataFim: df, HoraFim: hf,
	}
	require.NoError(t, db.Create(&evento).Error)

	r := setupRouter(db, usuarioTeste())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/eventos/1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Evento models.Evento `json:"evento"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.EVENTO_STATUS_EM_EXECUCAO, resp.Evento.Status)

	// persistiu, não só respondeu
	var salvo models.Evento
	require.NoError(t, db.First(&salvo, evento.ID).Error)
	assert.Equal(t, models.EVENTO_STATUS_EM_EXECUCAO, salvo.Status)

	// e deixou o rastro na timeline, com o ator de sync
	var entradas []models.TimelineEntry
	require.NoError(t, db.Where("evento_id = ?", evento.ID).Find(&entradas).Error)
	require.Len(t, entradas, 1)
	assert.Equal(t, models.TIMELINE_ATOR_SYNC, entradas[0].Ator)
	assert.Equal(t, models.TIMELINE_USUARIO_SISTEMA, entradas[0].Usuario)
	assert.Equal(t, models.TIMELINE_TIPO_EXECUCAO, entradas[0].Tipo)
}

// Sem usuário no contexto o sync não roda: visualização anônima nunca
// escreve nada.
func TestGetEventoByIDSemUsuarioNaoSincroniza(t *testing.T) {
	db := openTestDB(t)

	di, hi, df, hf := janelaEmTorno(time.Now())
	evento := models.Evento{
		Nome: "Formatura", Status: models.EVENTO_STATUS_CONFIRMADO,
		DataInicio: di, HoraInicio: hi, DataFim: df, HoraFim: hf,
	}
	require.NoError(t, db.Create(&evento).Error)

	r := setupRouter(db, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/eventos/1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var salvo models.Evento
	require.NoError(t, db.First(&salvo, evento.ID).Error)
	assert.Equal(t, models.EVENTO_STATUS_CONFIRMADO, salvo.Status)

	var entradas int64
	require.NoError(t, db.Model(&models.TimelineEntry{}).Count(&entradas).Error)
	assert.Equal(t, int64(0), entradas)
}

func TestSyncEventoStatusIgnoraArquivado(t *testing.T) {
	db := openTestDB(t)

	now := time.Now()
	di, hi, df, hf := janelaEmTorno(now)
	evento := models.Evento{
		Nome: "Arquivado", Status: models.EVENTO_STATUS_CONFIRMADO, Archived: true,
		DataInicio: di, HoraInicio: hi, DataFim: df, HoraFim: hf,
	}
	require.NoError(t, db.Create(&evento).Error)

	SyncEventoStatus(db, *usuarioTeste(), &evento, now)

	var salvo models.Evento
	require.NoError(t, db.First(&salvo, evento.ID).Error)
	assert.Equal(t, models.EVENTO_STATUS_CONFIRMADO, salvo.Status)
}

// Agenda inválida: o sync loga e engole, a visualização segue normal.
func TestSyncEventoStatusJanelaInvalida(t *testing.T) {
	db := openTestDB(t)

	evento := models.Evento{
		Nome: "Quebrado", Status: models.EVENTO_STATUS_CONFIRMADO,
		DataInicio: "2025-06-01", HoraInicio: "20:00",
		DataFim: "2025-06-01", HoraFim: "18:00",
	}
	require.NoError(t, db.Create(&evento).Error)

	SyncEventoStatus(db, *usuarioTeste(), &evento, time.Date(2025, 6, 1, 21, 0, 0, 0, time.Local))

	var salvo models.Evento
	require.NoError(t, db.First(&salvo, evento.ID).Error)
	assert.Equal(t, models.EVENTO_STATUS_CONFIRMADO, salvo.Status)
}

func TestRunStatusSweepExigeToken(t *testing.T) {
	db := openTestDB(t)
	SetSweepToken("segredo-do-cron")
	t.Cleanup(func() { SetSweepToken("") })

	r := setupRouter(db, nil)

	// sem header
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/eventos/sweep", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// token errado
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/eventos/sweep", nil)
	req.Header.Set("X-Sweep-Token", "chute")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRunStatusSweepComToken(t *testing.T) {
	db := openTestDB(t)
	SetSweepToken("segredo-do-cron")
	t.Cleanup(func() { SetSweepToken("") })

	di, hi, df, hf := janelaEmTorno(time.Now())
	evento := models.Evento{
		Nome: "Aniversário", Status: models.EVENTO_STATUS_CONFIRMADO,
		DataInicio: di, HoraInicio: hi, DataFim: df, HoraFim: hf,
	}
	require.NoError(t, db.Create(&evento).Error)

	r := setupRouter(db, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/eventos/sweep", nil)
	req.Header.Set("X-Sweep-Token", "segredo-do-cron")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		EventosIniciados  int `json:"eventos_iniciados"`
		EventosConcluidos int `json:"eventos_concluidos"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.EventosIniciados)
	assert.Equal(t, 0, resp.EventosConcluidos)

	assert.Equal(t, models.EVENTO_STATUS_EM_EXECUCAO, statusDe(t, db, evento.ID))
}

// Sweep desabilitado (token vazio) nunca roda, nem sem header.
func TestRunStatusSweepDesabilitado(t *testing.T) {
	db := openTestDB(t)
	SetSweepToken("")

	r := setupRouter(db, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/eventos/sweep", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateEventoValidacoes(t *testing.T) {
	db := openTestDB(t)
	r := setupRouter(db, usuarioTeste())

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "sem nome",
			body:     `{"data_inicio":"2025-06-01","hora_inicio":"18:00","data_fim":"2025-06-01","hora_fim":"23:00"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "janela invertida",
			body:     `{"nome":"X","data_inicio":"2025-06-01","hora_inicio":"23:00","data_fim":"2025-06-01","hora_fim":"18:00"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "status desconhecido",
			body:     `{"nome":"X","status":"pendente","data_inicio":"2025-06-01","hora_inicio":"18:00","data_fim":"2025-06-01","hora_fim":"23:00"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "evento válido",
			body:     `{"nome":"Casamento","data_inicio":"2025-06-01","hora_inicio":"18:00","data_fim":"2025-06-01","hora_fim":"23:00"}`,
			wantCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/eventos", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}

	// o válido entrou como orçamento (status inicial do fluxo de cadastro)
	var evento models.Evento
	require.NoError(t, db.Where("nome = ?", "Casamento").First(&evento).Error)
	assert.Equal(t, models.EVENTO_STATUS_ORCAMENTO, evento.Status)
}

func statusDe(t *testing.T, db *gorm.DB, id int64) string {
	t.Helper()

	var evento models.Evento
	require.NoError(t, db.First(&evento, id).Error)
	return evento.Status
}
