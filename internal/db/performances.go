package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/dance-contest-core/internal/models"
	"github.com/lib/pq"
)

// ErrPerformanceNotFound — номер с таким id не существует.
var ErrPerformanceNotFound = errors.New("номер не найден")

// PerformanceFilter — фильтры выборки номеров для рейтинга; все условия
// соединяются через AND, пустой фильтр означает «без ограничений».
type PerformanceFilter struct {
	EventIDs        []int64
	AgeCategory     string
	PerformanceType models.PerformanceType
	Region          string
}

// PerformanceWithEvent — номер вместе с регионом события, к которому он
// прикреплён (нужен для составных ключей рейтинга).
type PerformanceWithEvent struct {
	models.Performance
	Region string
}

// CreateEvent создаёт событие; CRUD событий живёт в админке, здесь только
// минимум для сидирования и тестов.
func CreateEvent(ctx context.Context, database *sql.DB, name, region string) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO events (name, region, starts_at) VALUES ($1, $2, NOW()) RETURNING id`,
		name, region,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание события: %w", err)
	}
	return id, nil
}

func CreateDancer(ctx context.Context, database *sql.DB, fullName string) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO dancers (full_name) VALUES ($1) RETURNING id`, fullName,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание танцора: %w", err)
	}
	return id, nil
}

// CreatePerformance вставляет номер вместе с упорядоченным составом
// участников одной транзакцией.
func CreatePerformance(ctx context.Context, database *sql.DB, p models.Performance) (int64, error) {
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO performances (event_id, age_category, performance_type, dance_style,
			title, choreographer, mastery_level, contestant_name, item_number, withdrawn)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		p.EventID, p.AgeCategory, p.Type, p.Style,
		p.Title, p.Choreographer, p.MasteryLevel, p.ContestantName, p.ItemNumber, p.Withdrawn,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание номера: %w", err)
	}

	for i, dancerID := range p.ParticipantIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO performance_participants (performance_id, dancer_id, position)
			VALUES ($1, $2, $3)`,
			id, dancerID, i+1,
		); err != nil {
			return 0, fmt.Errorf("состав номера: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdatePerformance — типизированный патч: в UPDATE попадают только
// заполненные поля, запрос всегда параметризованный.
func UpdatePerformance(ctx context.Context, database *sql.DB, id int64, patch models.PerformancePatch) error {
	if patch.Empty() {
		return nil
	}
	q := "UPDATE performances SET "
	args := []any{}
	idx := 1
	if patch.ItemNumber != nil {
		q += fmt.Sprintf("item_number = $%d", idx)
		args = append(args, *patch.ItemNumber)
		idx++
	}
	if patch.Withdrawn != nil {
		if idx > 1 {
			q += ", "
		}
		q += fmt.Sprintf("withdrawn = $%d", idx)
		args = append(args, *patch.Withdrawn)
		idx++
	}
	q += fmt.Sprintf(" WHERE id = $%d", idx)
	args = append(args, id)

	res, err := database.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrPerformanceNotFound
	}
	return nil
}

// ListForRanking — кандидаты рейтинга: не снятые с судейства номера,
// прошедшие фильтры. Наличие оценок здесь не проверяется — это решает
// агрегация.
func ListForRanking(ctx context.Context, database *sql.DB, f PerformanceFilter) ([]PerformanceWithEvent, error) {
	q := `
		SELECT p.id, p.event_id, e.region, p.age_category, p.performance_type, p.dance_style,
		       p.title, p.choreographer, p.mastery_level, p.contestant_name,
		       p.item_number, p.withdrawn, p.created_at
		FROM performances p
		JOIN events e ON e.id = p.event_id
		WHERE NOT p.withdrawn
	`
	args := []any{}
	idx := 1
	if len(f.EventIDs) > 0 {
		q += fmt.Sprintf(" AND p.event_id = ANY($%d::bigint[])", idx)
		args = append(args, pq.Array(f.EventIDs))
		idx++
	}
	if f.AgeCategory != "" {
		q += fmt.Sprintf(" AND p.age_category = $%d", idx)
		args = append(args, f.AgeCategory)
		idx++
	}
	if f.PerformanceType != "" {
		q += fmt.Sprintf(" AND p.performance_type = $%d", idx)
		args = append(args, string(f.PerformanceType))
		idx++
	}
	if f.Region != "" {
		q += fmt.Sprintf(" AND e.region = $%d", idx)
		args = append(args, f.Region)
		idx++
	}
	q += " ORDER BY p.id"

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []PerformanceWithEvent
	for rows.Next() {
		var p PerformanceWithEvent
		if err := rows.Scan(&p.ID, &p.EventID, &p.Region, &p.AgeCategory, &p.Type, &p.Style,
			&p.Title, &p.Choreographer, &p.MasteryLevel, &p.ContestantName,
			&p.ItemNumber, &p.Withdrawn, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ParticipantNames — имена участников по номерам, в порядке позиций состава.
func ParticipantNames(ctx context.Context, database *sql.DB, performanceIDs []int64) (map[int64][]string, error) {
	if len(performanceIDs) == 0 {
		return map[int64][]string{}, nil
	}
	rows, err := database.QueryContext(ctx, `
		SELECT pp.performance_id, d.full_name
		FROM performance_participants pp
		JOIN dancers d ON d.id = pp.dancer_id
		WHERE pp.performance_id = ANY($1::bigint[])
		ORDER BY pp.performance_id, pp.position`,
		pq.Array(performanceIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]string)
	for rows.Next() {
		var pid int64
		var name string
		if err := rows.Scan(&pid, &name); err != nil {
			return nil, err
		}
		out[pid] = append(out[pid], name)
	}
	return out, rows.Err()
}
