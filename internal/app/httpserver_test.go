package app

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Spok95/dance-contest-core/internal/scoring"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// closedAPI — API поверх закрытого хэндла: любой запрос к базе возвращает
// ошибку хранилища, контейнер не нужен.
func closedAPI(t *testing.T) (*API, *observer.ObservedLogs) {
	t.Helper()
	database, err := sql.Open("pgx", "postgres://localhost:1/void")
	if err != nil {
		t.Fatal(err)
	}
	_ = database.Close()
	core, logs := observer.New(zap.ErrorLevel)
	lg := zap.New(core)
	return &API{db: database, log: lg, rank: scoring.NewRanking(database, lg)}, logs
}

func TestDeleteScore_StorageFailureIs500(t *testing.T) {
	api, logs := closedAPI(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/scores?judge_id=7&performance_id=3", nil)
	rec := httptest.NewRecorder()
	api.handleScores(rec, req)

	// недоступное хранилище — не «оценка не найдена»
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("ожидали 500 при недоступном хранилище, получили %d", rec.Code)
	}

	entries := logs.All()
	if len(entries) == 0 {
		t.Fatal("ожидали запись об ошибке в логе")
	}
	var judgeID int64
	for _, f := range entries[0].Context {
		if f.Key == "judge_id" {
			judgeID = f.Integer
		}
	}
	if judgeID != 7 {
		t.Fatalf("ожидали judge_id=7 в полях лога, получили %+v", entries[0].Context)
	}
}

func TestSubmitScore_StorageFailureIs500(t *testing.T) {
	api, _ := closedAPI(t)

	body := `{"judge_id":2,"performance_id":4,"technical":10,"musical":10,"performance":10,"styling":10,"overall_impression":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.handleScores(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("ожидали 500 при недоступном хранилище, получили %d", rec.Code)
	}
}

func TestPerformancePatch_StorageFailureIs500(t *testing.T) {
	api, _ := closedAPI(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/performances/5", strings.NewReader(`{"withdrawn":true}`))
	rec := httptest.NewRecorder()
	api.handlePerformancePatch(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("ожидали 500 при недоступном хранилище, получили %d", rec.Code)
	}
}
