package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	dbpkg "locafesta/db"
	"locafesta/models"

	"github.com/gin-gonic/gin"
)

// ------------------------------
// Dashboard - Stats
// ------------------------------

type transicoesPerDayRow struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// GET /api/eventos/dashboard/transicoes-per-day
// Query params:
// - tipo=execucao|fechamento (optional, default: ambos)
// - from=YYYY-MM-DD (optional, default: hoje-6)
// - to=YYYY-MM-DD   (optional, default: hoje)
// Série diária de transições automáticas (inclui dias com 0), contada sobre a
// timeline — serve para acompanhar se sweep/sync estão trabalhando.
func GetTransicoesPerDay(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	// Normaliza para início do dia e usa "to exclusivo" (dia seguinte 00:00).
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
	toInclusive := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.Local)
	toExclusive := toInclusive.AddDate(0, 0, 1)

	// Monta a expressão de "dia" dependendo do dialeto.
	dialect := strings.ToLower(db.Dialect().GetName())

	dayExpr := "date(data)" // fallback genérico
	if strings.Contains(dialect, "sqlite") {
		dayExpr = "strftime('%Y-%m-%d', data, 'localtime')"
	} else if strings.Contains(dialect, "postgres") {
		dayExpr = "to_char(date_trunc('day', data), 'YYYY-MM-DD')"
	}

	q := db.Table("timeline_entries").
		Select(fmt.Sprintf("%s as day, count(*) as count", dayExpr)).
		Where("ator IN (?)", []string{models.TIMELINE_ATOR_SWEEP, models.TIMELINE_ATOR_SYNC}).
		Where("data >= ? AND data < ?", from, toExclusive)

	tipo := strings.TrimSpace(c.Query("tipo"))
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}

	var rows []transicoesPerDayRow
	if err := q.Group("day").Order("day asc").Scan(&rows).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	// Preenche dias faltantes com 0.
	series := fillDailySeries(from, to, rows)
	RespondSuccess(c, gin.H{
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"series": series,
	})
}

type statusCountRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GET /api/eventos/dashboard/status-counts
// Quantos eventos (não arquivados) existem em cada status.
func GetEventosStatusCounts(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var rows []statusCountRow
	if err := db.Table("eventos").
		Select("status, count(*) as count").
		Where("archived = ?", false).
		Group("status").
		Order("status asc").
		Scan(&rows).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"counts": rows})
}

// ------------------------------
// Helpers
// ------------------------------

func queryInt(c *gin.Context, key string, def int) int {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def
	}
	var n int
	_, err := fmt.Sscanf(v, "%d", &n)
	if err != nil {
		return def
	}
	return n
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	// defaults: últimos 7 dias
	now := time.Now()
	defTo := now
	defFrom := now.AddDate(0, 0, -6)

	fromStr := strings.TrimSpace(c.Query("from"))
	toStr := strings.TrimSpace(c.Query("to"))

	from := defFrom
	to := defTo
	var err error

	if fromStr != "" {
		from, err = time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			RespondError(c, "from inválido (use YYYY-MM-DD)", http.StatusBadRequest)
			return time.Time{}, time.Time{}, false
		}
	}
	if toStr != "" {
		to, err = time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			RespondError(c, "to inválido (use YYYY-MM-DD)", http.StatusBadRequest)
			return time.Time{}, time.Time{}, false
		}
	}
	if from.After(to) {
		RespondError(c, "from não pode ser maior que to", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func fillDailySeries(from time.Time, to time.Time, rows []transicoesPerDayRow) []transicoesPerDayRow {
	// mapa day->count
	m := map[string]int64{}
	for _, r := range rows {
		if r.Day == "" {
			continue
		}
		m[r.Day] = r.Count
	}

	var out []transicoesPerDayRow
	// itera por dia (inclusive)
	cur := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.Local)
	for !cur.After(end) {
		key := cur.Format("2006-01-02")
		out = append(out, transicoesPerDayRow{Day: key, Count: m[key]})
		cur = cur.AddDate(0, 0, 1)
	}
	return out
}
