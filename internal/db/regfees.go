package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/dance-contest-core/internal/models"
	"github.com/lib/pq"
)

// Операции ниже запускаются только действием администратора.
// Калькулятор стоимости эту таблицу лишь читает: расчёт (квотирование)
// отделён от фиксации оплаты, чтобы повторный расчёт ничего не «дочислял».

// MarkPaid отмечает взнос оплаченным под указанным уровнем мастерства,
// перезаписывая прежнее состояние.
func MarkPaid(ctx context.Context, database *sql.DB, dancerID int64, level models.MasteryLevel) error {
	_, err := database.ExecContext(ctx, `
		INSERT INTO registration_fees (dancer_id, paid, mastery_level, paid_at)
		VALUES ($1, TRUE, $2, NOW())
		ON CONFLICT (dancer_id) DO UPDATE SET
			paid = TRUE, mastery_level = EXCLUDED.mastery_level, paid_at = NOW()`,
		dancerID, string(level))
	if err != nil {
		return fmt.Errorf("отметка об оплате взноса: %w", err)
	}
	return nil
}

// MarkUnpaid сбрасывает отметку об оплате.
func MarkUnpaid(ctx context.Context, database *sql.DB, dancerID int64) error {
	_, err := database.ExecContext(ctx, `
		INSERT INTO registration_fees (dancer_id, paid, mastery_level, paid_at)
		VALUES ($1, FALSE, NULL, NULL)
		ON CONFLICT (dancer_id) DO UPDATE SET
			paid = FALSE, mastery_level = NULL, paid_at = NULL`,
		dancerID)
	if err != nil {
		return fmt.Errorf("сброс отметки об оплате: %w", err)
	}
	return nil
}

// GetStatus — состояние взноса танцора. Отсутствие строки — не ошибка:
// танцор просто ещё ничего не оплачивал.
func GetStatus(ctx context.Context, database *sql.DB, dancerID int64) (models.RegistrationFeeRecord, error) {
	m, err := GetStatusForMany(ctx, database, []int64{dancerID})
	if err != nil {
		return models.RegistrationFeeRecord{}, err
	}
	if rec, ok := m[dancerID]; ok {
		return rec, nil
	}
	return models.RegistrationFeeRecord{DancerID: dancerID}, nil
}

// GetStatusForMany — снимок состояния взносов для состава заявки.
// В карте присутствуют только танцоры с записью; остальные считаются
// неоплатившими.
func GetStatusForMany(ctx context.Context, database *sql.DB, dancerIDs []int64) (map[int64]models.RegistrationFeeRecord, error) {
	out := make(map[int64]models.RegistrationFeeRecord, len(dancerIDs))
	if len(dancerIDs) == 0 {
		return out, nil
	}
	rows, err := database.QueryContext(ctx, `
		SELECT dancer_id, paid, mastery_level, paid_at
		FROM registration_fees
		WHERE dancer_id = ANY($1::bigint[])`,
		pq.Array(dancerIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var rec models.RegistrationFeeRecord
		var level sql.NullString
		if err := rows.Scan(&rec.DancerID, &rec.Paid, &level, &rec.PaidAt); err != nil {
			return nil, err
		}
		if level.Valid {
			l := models.MasteryLevel(level.String)
			rec.MasteryLevel = &l
		}
		out[rec.DancerID] = rec
	}
	return out, rows.Err()
}
