package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/dance-contest-core/internal/ctxutil"
	"github.com/Spok95/dance-contest-core/internal/db"
	"github.com/Spok95/dance-contest-core/internal/export"
	"github.com/Spok95/dance-contest-core/internal/fees"
	"github.com/Spok95/dance-contest-core/internal/metrics"
	"github.com/Spok95/dance-contest-core/internal/models"
	"github.com/Spok95/dance-contest-core/internal/observability"
	"github.com/Spok95/dance-contest-core/internal/scoring"
	"go.uber.org/zap"
)

type HTTPServer struct {
	srv *http.Server
}

// API — тонкий JSON-слой над ядром. Валидация входа живёт здесь,
// вычисления — в scoring/fees, хранение — в db.
type API struct {
	db   *sql.DB
	log  *zap.Logger
	rank *scoring.Ranking
}

func StartHTTP(ctx context.Context, addr string, database *sql.DB, log *zap.Logger) *HTTPServer {
	api := &API{
		db:   database,
		log:  log,
		rank: scoring.NewRanking(database, log),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("/api/scores", api.handleScores)
	mux.HandleFunc("/api/rankings", api.handleRankings)
	mux.HandleFunc("/api/rankings/export", api.handleRankingsExport)
	mux.HandleFunc("/api/fees/quote", api.handleFeeQuote)
	mux.HandleFunc("/api/fees/mark-paid", api.handleMarkPaid)
	mux.HandleFunc("/api/fees/mark-unpaid", api.handleMarkUnpaid)
	mux.HandleFunc("/api/fees/status", api.handleFeeStatus)
	mux.HandleFunc("/api/performances/", api.handlePerformancePatch)

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe() // закрываем аккуратно при Shutdown
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}

type scorePayload struct {
	JudgeID           int64   `json:"judge_id"`
	PerformanceID     int64   `json:"performance_id"`
	Technical         float64 `json:"technical"`
	Musical           float64 `json:"musical"`
	Performance       float64 `json:"performance"`
	Styling           float64 `json:"styling"`
	OverallImpression float64 `json:"overall_impression"`
	Comments          *string `json:"comments,omitempty"`
}

// handleScores: POST — приём оценки судьи, DELETE — снятие оценки.
func (a *API) handleScores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var p scorePayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			a.badRequest(w, "некорректный JSON: "+err.Error())
			return
		}
		if p.JudgeID <= 0 || p.PerformanceID <= 0 {
			a.badRequest(w, "judge_id и performance_id обязательны")
			return
		}
		s := models.Score{
			JudgeID:           p.JudgeID,
			PerformanceID:     p.PerformanceID,
			Technical:         p.Technical,
			Musical:           p.Musical,
			Performance:       p.Performance,
			Styling:           p.Styling,
			OverallImpression: p.OverallImpression,
			Comments:          p.Comments,
			SubmittedAt:       time.Now(),
		}
		if err := s.Validate(); err != nil {
			a.badRequest(w, err.Error())
			return
		}
		ctx, cancel := ctxutil.WithDBTimeout(
			ctxutil.WithJudgeID(ctxutil.WithOp(r.Context(), "submit_score"), p.JudgeID))
		defer cancel()
		if err := db.SubmitScore(ctx, a.db, s); err != nil {
			a.internalError(ctx, w, "сохранение оценки", err)
			return
		}
		metrics.ScoreSubmissions.Inc()
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		judgeID, err1 := strconv.ParseInt(r.URL.Query().Get("judge_id"), 10, 64)
		perfID, err2 := strconv.ParseInt(r.URL.Query().Get("performance_id"), 10, 64)
		if err1 != nil || err2 != nil {
			a.badRequest(w, "нужны числовые judge_id и performance_id")
			return
		}
		ctx, cancel := ctxutil.WithDBTimeout(
			ctxutil.WithJudgeID(ctxutil.WithOp(r.Context(), "delete_score"), judgeID))
		defer cancel()
		if err := db.DeleteScore(ctx, a.db, judgeID, perfID); err != nil {
			// ошибки хранилища не маскируются под «не найдена»
			if errors.Is(err, db.ErrScoreNotFound) {
				a.badRequest(w, err.Error())
			} else {
				a.internalError(ctx, w, "удаление оценки", err)
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *API) rankingsFromQuery(r *http.Request) ([]models.RankingRow, bool, error) {
	q := r.URL.Query()
	f := scoring.Filter{
		AgeCategory: q.Get("age_category"),
		Region:      q.Get("region"),
	}
	if v := q.Get("performance_type"); v != "" {
		t, err := models.ParsePerformanceType(v)
		if err != nil {
			return nil, true, err
		}
		f.PerformanceType = t
	}
	for _, part := range splitCSV(q.Get("event_ids")) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, true, errors.New("event_ids: ожидаются числовые идентификаторы")
		}
		f.EventIDs = append(f.EventIDs, id)
	}

	var parts []scoring.PartitionField
	for _, g := range splitCSV(q.Get("group_by")) {
		p, err := scoring.ParsePartitionField(g)
		if err != nil {
			return nil, true, err
		}
		parts = append(parts, p)
	}

	ctx, cancel := ctxutil.WithDBTimeout(ctxutil.WithOp(r.Context(), "rankings"))
	defer cancel()

	metrics.RankingRequests.Inc()
	var rows []models.RankingRow
	var err error
	if len(parts) > 0 {
		rows, err = a.rank.GetRankingsByCategory(ctx, f, parts)
	} else {
		rows, err = a.rank.GetRankings(ctx, f)
	}
	return rows, false, err
}

// handleRankings: GET /api/rankings?event_ids=1,2&age_category=&performance_type=&region=&group_by=age_category,performance_type
func (a *API) handleRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rows, badInput, err := a.rankingsFromQuery(r)
	if err != nil {
		if badInput {
			a.badRequest(w, err.Error())
		} else {
			a.internalError(r.Context(), w, "расчёт рейтинга", err)
		}
		return
	}
	a.writeJSON(w, rows) // пустой список — валидный успех, не 404
}

// handleRankingsExport — итоговый протокол в xlsx тем же набором фильтров.
func (a *API) handleRankingsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rows, badInput, err := a.rankingsFromQuery(r)
	if err != nil {
		if badInput {
			a.badRequest(w, err.Error())
		} else {
			a.internalError(r.Context(), w, "расчёт рейтинга", err)
		}
		return
	}
	path, err := export.GenerateResultsReport(rows, "Итоговый протокол")
	if err != nil {
		a.internalError(r.Context(), w, "формирование протокола", err)
		return
	}
	defer func() { _ = os.Remove(path) }()
	w.Header().Set("Content-Disposition", `attachment; filename="results.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

type feeQuotePayload struct {
	PerformanceType string  `json:"performance_type"`
	MasteryLevel    string  `json:"mastery_level"`
	ParticipantIDs  []int64 `json:"participant_ids"`
	SoloCount       int     `json:"solo_count,omitempty"`
}

// handleFeeQuote считает стоимость заявки по свежему снимку взносов.
// Ничего не записывает: котировка и фиксация оплаты разделены.
func (a *API) handleFeeQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p feeQuotePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		a.badRequest(w, "некорректный JSON: "+err.Error())
		return
	}
	pt, err := models.ParsePerformanceType(p.PerformanceType)
	if err != nil {
		a.badRequest(w, err.Error())
		return
	}
	ml, err := models.ParseMasteryLevel(p.MasteryLevel)
	if err != nil {
		a.badRequest(w, err.Error())
		return
	}
	soloCount := p.SoloCount
	if pt == models.Solo && soloCount == 0 {
		soloCount = 1
	}

	ctx, cancel := ctxutil.WithDBTimeout(ctxutil.WithOp(r.Context(), "fee_quote"))
	defer cancel()
	records, err := db.GetStatusForMany(ctx, a.db, p.ParticipantIDs)
	if err != nil {
		a.internalError(ctx, w, "чтение взносов", err)
		return
	}
	breakdown, err := fees.Calculate(fees.Input{
		Type:         pt,
		MasteryLevel: ml,
		Participants: p.ParticipantIDs,
		SoloCount:    soloCount,
	}, records)
	if err != nil {
		a.badRequest(w, err.Error())
		return
	}
	metrics.FeeQuotes.Inc()
	a.writeJSON(w, breakdown)
}

type markPayload struct {
	DancerID     int64  `json:"dancer_id"`
	MasteryLevel string `json:"mastery_level,omitempty"`
}

func (a *API) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p markPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.DancerID <= 0 {
		a.badRequest(w, "нужен dancer_id")
		return
	}
	ml, err := models.ParseMasteryLevel(p.MasteryLevel)
	if err != nil {
		a.badRequest(w, err.Error())
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.MarkPaid(ctx, a.db, p.DancerID, ml); err != nil {
		a.internalError(ctx, w, "отметка об оплате", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMarkUnpaid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var p markPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.DancerID <= 0 {
		a.badRequest(w, "нужен dancer_id")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	if err := db.MarkUnpaid(ctx, a.db, p.DancerID); err != nil {
		a.internalError(ctx, w, "сброс отметки об оплате", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFeeStatus: GET /api/fees/status?dancer_ids=1,2,3
func (a *API) handleFeeStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var ids []int64
	for _, part := range splitCSV(r.URL.Query().Get("dancer_ids")) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			a.badRequest(w, "dancer_ids: ожидаются числовые идентификаторы")
			return
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		a.badRequest(w, "нужен хотя бы один dancer_id")
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()
	m, err := db.GetStatusForMany(ctx, a.db, ids)
	if err != nil {
		a.internalError(ctx, w, "чтение взносов", err)
		return
	}
	out := make([]models.RegistrationFeeRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := m[id]; ok {
			out = append(out, rec)
		} else {
			out = append(out, models.RegistrationFeeRecord{DancerID: id})
		}
	}
	a.writeJSON(w, out)
}

type performancePatchPayload struct {
	ItemNumber *int  `json:"item_number,omitempty"`
	Withdrawn  *bool `json:"withdrawn,omitempty"`
}

// handlePerformancePatch: PATCH /api/performances/{id} — только номер в
// программе и флаг снятия, остальное после одобрения не меняется.
func (a *API) handlePerformancePatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/performances/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		a.badRequest(w, "некорректный идентификатор номера")
		return
	}
	var p performancePatchPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		a.badRequest(w, "некорректный JSON: "+err.Error())
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctxutil.WithOp(r.Context(), "patch_performance"))
	defer cancel()
	if err := db.UpdatePerformance(ctx, a.db, id, models.PerformancePatch{
		ItemNumber: p.ItemNumber,
		Withdrawn:  p.Withdrawn,
	}); err != nil {
		if errors.Is(err, db.ErrPerformanceNotFound) {
			a.badRequest(w, err.Error())
		} else {
			a.internalError(ctx, w, "изменение номера", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("запись ответа", zap.Error(err))
	}
}

func (a *API) badRequest(w http.ResponseWriter, msg string) {
	metrics.HandlerErrors.Inc()
	http.Error(w, msg, http.StatusBadRequest)
}

func (a *API) internalError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	metrics.HandlerErrors.Inc()
	observability.CaptureErr(err)
	fields := []zap.Field{zap.Error(err)}
	if name, ok := ctxutil.Op(ctx); ok {
		fields = append(fields, zap.String("op", name))
	}
	if id, ok := ctxutil.JudgeID(ctx); ok {
		fields = append(fields, zap.Int64("judge_id", id))
	}
	a.log.Error(op, fields...)
	http.Error(w, op+": внутренняя ошибка", http.StatusInternalServerError)
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
