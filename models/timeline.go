package models

import "time"

/************************************************
/**** MARK: TIMELINE TIPOS ****/
/************************************************/
const TIMELINE_TIPO_EXECUCAO = "execucao"
const TIMELINE_TIPO_FECHAMENTO = "fechamento"
const TIMELINE_TIPO_NOTA = "nota"

/************************************************
/**** MARK: TIMELINE ATOR ****/
/************************************************/
// Quem causou a entrada. Consumidores distinguem máquina de humano por este
// campo, não comparando o nome em Usuario.
const TIMELINE_ATOR_USUARIO = "usuario"
const TIMELINE_ATOR_SWEEP = "sweep"
const TIMELINE_ATOR_SYNC = "sync"

// Nome exibido nas entradas automáticas.
const TIMELINE_USUARIO_SISTEMA = "Sistema (Automático)"

// TimelineEntry é o histórico append-only de um evento. Entradas pertencem
// exclusivamente ao evento: nunca são editadas, removidas ou realocadas.
type TimelineEntry struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	EventoID  int64      `gorm:"not null;index" json:"evento_id" form:"evento_id"`
	Tipo      string     `gorm:"not null;index" json:"tipo" form:"tipo"`
	Descricao string     `gorm:"type:text;not null" json:"descricao" form:"descricao"`
	Usuario   string     `gorm:"not null" json:"usuario" form:"usuario"`
	Ator      string     `gorm:"not null;default:'usuario';index" json:"ator"`
	Data      *time.Time `gorm:"index" json:"data"`
	CreatedAt *time.Time `json:"created_at"`
}

// NovaEntradaAutomatica monta a entrada de timeline de uma transição
// automática de status.
func NovaEntradaAutomatica(eventoID int64, t Transicao, ator string, quando time.Time) TimelineEntry {
	return TimelineEntry{
		EventoID:  eventoID,
		Tipo:      t.Tipo,
		Descricao: t.Descricao,
		Usuario:   TIMELINE_USUARIO_SISTEMA,
		Ator:      ator,
		Data:      &quando,
	}
}
