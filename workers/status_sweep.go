package workers

import (
	"time"

	"locafesta/models"

	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog/log"
)

// SweepResult resume uma passada do sweep. Informativo (monitoração da saúde
// do próprio sweep), não é contrato para quem chama tomar decisão.
type SweepResult struct {
	EventosIniciados  int       `json:"eventos_iniciados"`
	EventosConcluidos int       `json:"eventos_concluidos"`
	Timestamp         time.Time `json:"timestamp"`
}

// StartStatusSweeper starts a loop that corrects stale evento statuses even
// when nobody is looking at them (overnight, unattended).
func StartStatusSweeper(db *gorm.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			result := SweepDueEventos(db, time.Now())
			if result.EventosIniciados > 0 || result.EventosConcluidos > 0 {
				log.Info().
					Int("iniciados", result.EventosIniciados).
					Int("concluidos", result.EventosConcluidos).
					Msg("status sweep: eventos atualizados")
			}
		}
	}()
}

// SweepDueEventos varre os eventos ativos (não arquivados) e aplica as
// transições automáticas devidas em relação a now. Seguro de repetir e de
// rodar concorrente consigo mesmo: a transição usa guarda otimista de status,
// então a segunda tentativa sobre o mesmo evento não faz nada.
func SweepDueEventos(db *gorm.DB, now time.Time) SweepResult {
	result := SweepResult{Timestamp: now}

	// Comparação lexical de "YYYY-MM-DD HH:MM" funciona em sqlite3 e
	// postgres porque os campos são zero-padded.
	nowStr := now.Format("2006-01-02 15:04")

	// 1) confirmado/em_preparacao com início já alcançado -> em_execucao
	var paraIniciar []models.Evento
	if err := db.
		Where("status IN (?)", []string{models.EVENTO_STATUS_CONFIRMADO, models.EVENTO_STATUS_EM_PREPARACAO}).
		Where("archived = ?", false).
		Where("(data_inicio || ' ' || hora_inicio) <= ?", nowStr).
		Order("data_inicio asc, id asc").
		Limit(200).
		Find(&paraIniciar).Error; err != nil {
		log.Error().Err(err).Msg("status sweep: erro na query de início")
	} else {
		result.EventosIniciados = aplicarTransicoes(db, paraIniciar, now)
	}

	// 2) em_execucao com fim já alcançado -> finalizado
	var paraFinalizar []models.Evento
	if err := db.
		Where("status = ?", models.EVENTO_STATUS_EM_EXECUCAO).
		Where("archived = ?", false).
		Where("(data_fim || ' ' || hora_fim) <= ?", nowStr).
		Order("data_fim asc, id asc").
		Limit(200).
		Find(&paraFinalizar).Error; err != nil {
		log.Error().Err(err).Msg("status sweep: erro na query de fechamento")
	} else {
		result.EventosConcluidos = aplicarTransicoes(db, paraFinalizar, now)
	}

	return result
}

// aplicarTransicoes roda o predicado compartilhado sobre cada candidato e
// persiste as transições devidas. Devolve quantas de fato aconteceram.
// Um evento com janela inválida gera warning e não derruba o resto do lote.
func aplicarTransicoes(db *gorm.DB, eventos []models.Evento, now time.Time) int {
	applied := 0
	for _, evento := range eventos {
		transicao, ok, err := models.ProximaTransicao(evento, now)
		if err != nil {
			log.Warn().Err(err).Int64("evento_id", evento.ID).
				Msg("status sweep: evento com agenda inválida, pulando")
			continue
		}
		if !ok {
			continue
		}

		// lock otimista: só conta se conseguir mudar o status a partir do
		// snapshot lido (outra instância pode ter chegado antes)
		res := db.Model(&models.Evento{}).
			Where("id = ? AND status = ?", evento.ID, evento.Status).
			Update("status", transicao.NovoStatus)
		if res.Error != nil {
			log.Error().Err(res.Error).Int64("evento_id", evento.ID).
				Msg("status sweep: erro ao atualizar status, pulando")
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		applied++

		// timeline é best-effort: se falhar, o status já mudou e fica sem a
		// entrada correspondente (lacuna conhecida, sem transação conjunta)
		entrada := models.NovaEntradaAutomatica(evento.ID, transicao, models.TIMELINE_ATOR_SWEEP, now)
		if err := db.Create(&entrada).Error; err != nil {
			log.Error().Err(err).Int64("evento_id", evento.ID).
				Msg("status sweep: erro ao gravar timeline")
		}
	}
	return applied
}
