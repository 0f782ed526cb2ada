package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Spok95/dance-contest-core/internal/models"
	"github.com/lib/pq"
)

// ErrScoreNotFound — у судьи нет оценки для этого номера.
var ErrScoreNotFound = errors.New("оценка не найдена")

// SubmitScore сохраняет оценку судьи. На пару (судья, номер) запись одна:
// повторная отправка перезаписывает прежнюю (last-write-wins для одного
// судьи; оценки разных судей — независимые вставки).
func SubmitScore(ctx context.Context, database *sql.DB, s models.Score) error {
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	_, err := database.ExecContext(ctx, `
		INSERT INTO scores (judge_id, performance_id, technical, musical, performance,
			styling, overall_impression, comments, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (judge_id, performance_id) DO UPDATE SET
			technical = EXCLUDED.technical,
			musical = EXCLUDED.musical,
			performance = EXCLUDED.performance,
			styling = EXCLUDED.styling,
			overall_impression = EXCLUDED.overall_impression,
			comments = EXCLUDED.comments,
			submitted_at = EXCLUDED.submitted_at`,
		s.JudgeID, s.PerformanceID, s.Technical, s.Musical, s.Performance,
		s.Styling, s.OverallImpression, s.Comments, s.SubmittedAt,
	)
	return err
}

// DeleteScore — явное удаление оценки судьи (снятие судьи с номера).
func DeleteScore(ctx context.Context, database *sql.DB, judgeID, performanceID int64) error {
	res, err := database.ExecContext(ctx,
		`DELETE FROM scores WHERE judge_id = $1 AND performance_id = $2`,
		judgeID, performanceID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrScoreNotFound
	}
	return nil
}

func GetScoresByPerformance(ctx context.Context, database *sql.DB, performanceID int64) ([]models.Score, error) {
	m, err := ScoresForPerformances(ctx, database, []int64{performanceID})
	if err != nil {
		return nil, err
	}
	return m[performanceID], nil
}

// ScoresForPerformances — все оценки указанных номеров одной выборкой,
// сгруппированные по номеру.
func ScoresForPerformances(ctx context.Context, database *sql.DB, performanceIDs []int64) (map[int64][]models.Score, error) {
	if len(performanceIDs) == 0 {
		return map[int64][]models.Score{}, nil
	}
	rows, err := database.QueryContext(ctx, `
		SELECT id, judge_id, performance_id, technical, musical, performance,
		       styling, overall_impression, comments, submitted_at
		FROM scores
		WHERE performance_id = ANY($1::bigint[])
		ORDER BY performance_id, judge_id`,
		pq.Array(performanceIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]models.Score)
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(&s.ID, &s.JudgeID, &s.PerformanceID, &s.Technical, &s.Musical,
			&s.Performance, &s.Styling, &s.OverallImpression, &s.Comments, &s.SubmittedAt); err != nil {
			return nil, err
		}
		out[s.PerformanceID] = append(out[s.PerformanceID], s)
	}
	return out, rows.Err()
}
