package workers

import (
	"testing"
	"time"

	dbpkg "locafesta/db"
	"locafesta/models"

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

	// :memory: cria um banco por conexão; trava o pool em uma só
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)

	require.NoError(t, dbpkg.AutoMigrate(db))
	return db
}

func criaEvento(t *testing.T, db *gorm.DB, status, dataInicio, horaInicio, dataFim, horaFim string, archived bool) models.Evento {
	t.Helper()

	evento := models.Evento{
		Nome:       "Evento de teste",
		Status:     status,
		DataInicio: dataInicio,
		HoraInicio: horaInicio,
		DataFim:    dataFim,
		HoraFim:    horaFim,
		Archived:   archived,
	}
	require.NoError(t, db.Create(&evento).Error)
	return evento
}

func TestSweepDueEventos(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.Local)

	comecaAgora := criaEvento(t, db, models.EVENTO_STATUS_CONFIRMADO, "2025-06-01", "18:00", "2025-06-01", "23:00", false)
	emPreparacao := criaEvento(t, db, models.EVENTO_STATUS_EM_PREPARACAO, "2025-06-01", "19:00", "2025-06-01", "22:00", false)
	amanha := criaEvento(t, db, models.EVENTO_STATUS_CONFIRMADO, "2025-06-02", "10:00", "2025-06-02", "14:00", false)
	jaAcabou := criaEvento(t, db, models.EVENTO_STATUS_EM_EXECUCAO, "2025-06-01", "10:00", "2025-06-01", "19:00", false)
	aindaRolando := criaEvento(t, db, models.EVENTO_STATUS_EM_EXECUCAO, "2025-06-01", "15:00", "2025-06-01", "23:00", false)
	arquivado := criaEvento(t, db, models.EVENTO_STATUS_CONFIRMADO, "2025-06-01", "18:00", "2025-06-01", "23:00", true)

	result := SweepDueEventos(db, now)

	assert.Equal(t, 2, result.EventosIniciados)
	assert.Equal(t, 1, result.EventosConcluidos)
	assert.Equal(t, now, result.Timestamp)

	assert.Equal(t, models.EVENTO_STATUS_EM_EXECUCAO, statusDe(t, db, comecaAgora.ID))
	assert.Equal(t, models.EVENTO_STATUS_EM_EXECUCAO, statusDe(t, db, emPreparacao.ID))
	assert.Equal(t, models.EVENTO_STATUS_CONFIRMADO, statusDe(t, db, amanha.ID))
	assert.Equal(t, models.EVENTO_STATUS_FINALIZADO, statusDe(t, db, jaAcabou.ID))
	assert.Equal(t, models.EVENTO_STATUS_EM_EXECUCAO, statusDe(t, db, aindaRolando.ID))
	assert.Equal(t, models.EVENTO_STATUS_CONFIRMADO, statusDe(t, db, arquivado.ID))
}

// Cada transição bem-sucedida deve gravar exatamente uma entrada de timeline,
// com o ator de máquina e o nome sentinela.
func TestSweepGravaTimeline(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.Local)

	iniciado := criaEvento(t, db, models.EVENTO_STATUS_CONFIRMADO, "2025-06-01", "18:00", "2025-06-01", "23:00", false)
	concluido := criaEvento(t, db, models.EVENTO_STATUS_EM_EXECUCAO, "2025-06-01", "10:00", "2025-06-01", "19:00", false)

	SweepDueEventos(db, now)

	var doInicio []models.TimelineEntry
	require.NoError(t, db.Where("evento_id = ?", iniciado.ID).Find(&doInicio).Error)
	require.Len(t, doInicio, 1)
	assert.Equal(t, models.TIMELINE_TIPO_EXECUCAO, doInicio[0].Tipo)
	assert.Equal(t, models.TIMELINE_ATOR_SWEEP, doInicio[0].Ator)
	assert.Equal(t, models.TIMELINE_USUARIO_SISTEMA, doInicio[0].Usuario)
	require.NotNil(t, doInicio[0].Data)
	assert.True(t, doInicio[0].Data.Equal(now))

	var doFim []models.TimelineEntry
	require.NoError(t, db.Where("evento_id = ?", concluido.ID).Find(&doFim).Error)
	require.Len(t, doFim, 1)
	assert.Equal(t, models.TIMELINE_TIPO_FECHAMENTO, doFim[0].Tipo)
	assert.Equal(t, models.TIMELINE_ATOR_SWEEP, doFim[0].Ator)
}

// Rodar de novo com o mesmo relógio não transiciona nada: os filtros de
// status deixam de casar depois da primeira passada.
func TestSweepIdempotente(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.Local)

	criaEvento(t, db, models.EVENTO_STATUS_CONFIRMADO, "2025-06-01", "18:00", "2025-06-01", "23:00", false)
	criaEvento(t, db, models.EVENTO_STATUS_EM_EXECUCAO, "2025-06-01", "10:00", "2025-06-01", "19:00", false)

	primeira := SweepDueEventos(db, now)
	assert.Equal(t, 1, primeira.EventosIniciados)
	assert.Equal(t, 1, primeira.EventosConcluidos)

	segunda := SweepDueEventos(db, now)
	assert.Equal(t, 0, segunda.EventosIniciados)
	assert.Equal(t, 0, segunda.EventosConcluidos)

	var entradas int64
	require.NoError(t, db.Model(&models.TimelineEntry{}).Count(&entradas).Error)
	assert.Equal(t, int64(2), entradas)
}

// Um mesmo evento nunca casa com as duas varreduras na mesma invocação
// (filtros de status disjuntos): confirmado com a janela já inteira no
// passado casa com a varredura de início, mas o predicado não o move.
func TestSweepVarredurasDisjuntas(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.Local)

	dormiu := criaEvento(t, db, models.EVENTO_STATUS_CONFIRMADO, "2025-06-01", "08:00", "2025-06-01", "12:00", false)

	result := SweepDueEventos(db, now)
	assert.Equal(t, 0, result.EventosIniciados)
	assert.Equal(t, 0, result.EventosConcluidos)
	assert.Equal(t, models.EVENTO_STATUS_CONFIRMADO, statusDe(t, db, dormiu.ID))

	var entradas int64
	require.NoError(t, db.Model(&models.TimelineEntry{}).Count(&entradas).Error)
	assert.Equal(t, int64(0), entradas)
}

// Evento com agenda inválida gera warning e é pulado sem derrubar o lote.
func TestSweepPulaJanelaInvalida(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.Local)

	quebrado := criaEvento(t, db, models.EVENTO_STATUS_CONFIRMADO, "2025-06-01", "18:00", "2025-06-01", "17:00", false)
	saudavel := criaEvento(t, db, models.EVENTO_STATUS_CONFIRMADO, "2025-06-01", "19:00", "2025-06-01", "23:00", false)

	result := SweepDueEventos(db, now)

	assert.Equal(t, 1, result.EventosIniciados)
	assert.Equal(t, models.EVENTO_STATUS_CONFIRMADO, statusDe(t, db, quebrado.ID))
	assert.Equal(t, models.EVENTO_STATUS_EM_EXECUCAO, statusDe(t, db, saudavel.ID))
}

func statusDe(t *testing.T, db *gorm.DB, id int64) string {
	t.Helper()

	var evento models.Evento
	require.NoError(t, db.First(&evento, id).Error)
	return evento.Status
}
