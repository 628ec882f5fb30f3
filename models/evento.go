package models

import (
	"fmt"
	"time"
)

/************************************************
/**** MARK: EVENTO STATUS ****/
/************************************************/
const EVENTO_STATUS_ORCAMENTO = "orcamento"
const EVENTO_STATUS_CONFIRMADO = "confirmado"
const EVENTO_STATUS_EM_PREPARACAO = "em_preparacao"
const EVENTO_STATUS_EM_EXECUCAO = "em_execucao"
const EVENTO_STATUS_FINALIZADO = "finalizado"
const EVENTO_STATUS_CANCELADO = "cancelado"

// Evento representa um evento (festa, locação) agendado por um cliente.
// Datas e horas ficam separadas ("2006-01-02" e "15:04") como vêm do front;
// Janela() combina as duas em instantes de verdade.
type Evento struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ClienteID   int64      `gorm:"not null;default:0;index" json:"cliente_id" form:"cliente_id"`
	Nome        string     `gorm:"not null" json:"nome" form:"nome"`
	Local       string     `gorm:"default:''" json:"local" form:"local"`
	DataInicio  string     `gorm:"not null;index" json:"data_inicio" form:"data_inicio"`
	HoraInicio  string     `gorm:"not null" json:"hora_inicio" form:"hora_inicio"`
	DataFim     string     `gorm:"not null" json:"data_fim" form:"data_fim"`
	HoraFim     string     `gorm:"not null" json:"hora_fim" form:"hora_fim"`
	Status      string     `gorm:"not null;default:'orcamento';index" json:"status" form:"status"`
	Archived    bool       `gorm:"not null;default:false;index" json:"archived" form:"archived"`
	Observacoes string     `gorm:"type:text" json:"observacoes" form:"observacoes"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (evento Evento) MissingFields() string {
	if evento.Nome == "" {
		return "nome"
	} else if evento.DataInicio == "" {
		return "data_inicio"
	} else if evento.HoraInicio == "" {
		return "hora_inicio"
	} else if evento.DataFim == "" {
		return "data_fim"
	} else if evento.HoraFim == "" {
		return "hora_fim"
	}
	return ""
}

// Janela devolve o início e o fim do evento como instantes locais.
// Erro se alguma data/hora estiver vazia ou fora do formato, ou se fim <= início.
func (evento Evento) Janela() (time.Time, time.Time, error) {
	inicio, err := parseDataHora(evento.DataInicio, evento.HoraInicio)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("inicio inválido: %w", err)
	}
	fim, err := parseDataHora(evento.DataFim, evento.HoraFim)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("fim inválido: %w", err)
	}
	if !inicio.Before(fim) {
		return time.Time{}, time.Time{}, fmt.Errorf("janela inválida: início %s não é anterior ao fim %s",
			inicio.Format("2006-01-02 15:04"), fim.Format("2006-01-02 15:04"))
	}
	return inicio, fim, nil
}

func parseDataHora(data, hora string) (time.Time, error) {
	if data == "" || hora == "" {
		return time.Time{}, fmt.Errorf("data/hora ausente")
	}
	return time.ParseInLocation("2006-01-02 15:04", data+" "+hora, time.Local)
}

/************************************************
/**** MARK: TRANSIÇÃO AUTOMÁTICA DE STATUS ****/
/************************************************/

// Transicao descreve uma mudança de status devida, junto com a entrada
// de timeline que deve acompanhá-la.
type Transicao struct {
	NovoStatus string
	Tipo       string
	Descricao  string
}

// ProximaTransicao é o predicado compartilhado entre o sync (por visualização)
// e o sweep (em lote). Puro: só olha o evento e o relógio recebido.
//
// Regras (janela [inicio, fim)):
//   - confirmado/em_preparacao e inicio <= now < fim  -> em_execucao
//   - em_execucao e now >= fim                        -> finalizado
//
// Idempotente: depois de aplicada, a mesma regra não casa mais com o novo
// status. Estados terminais (finalizado, cancelado) nunca mudam aqui.
func ProximaTransicao(evento Evento, now time.Time) (Transicao, bool, error) {
	switch evento.Status {
	case EVENTO_STATUS_CONFIRMADO, EVENTO_STATUS_EM_PREPARACAO:
		inicio, fim, err := evento.Janela()
		if err != nil {
			return Transicao{}, false, err
		}
		if !now.Before(inicio) && now.Before(fim) {
			return Transicao{
				NovoStatus: EVENTO_STATUS_EM_EXECUCAO,
				Tipo:       TIMELINE_TIPO_EXECUCAO,
				Descricao:  "Execução iniciada automaticamente",
			}, true, nil
		}
		return Transicao{}, false, nil

	case EVENTO_STATUS_EM_EXECUCAO:
		_, fim, err := evento.Janela()
		if err != nil {
			return Transicao{}, false, err
		}
		if !now.Before(fim) {
			return Transicao{
				NovoStatus: EVENTO_STATUS_FINALIZADO,
				Tipo:       TIMELINE_TIPO_FECHAMENTO,
				Descricao:  "Evento finalizado automaticamente",
			}, true, nil
		}
		return Transicao{}, false, nil
	}

	return Transicao{}, false, nil
}
