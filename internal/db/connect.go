package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open открывает Postgres через pgx-драйвер и проверяет соединение ping'ом.
// Хэндл отдаётся наверх: все вычисления ядра получают готовую базу
// параметром, никакой ленивой инициализации по месту.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	database, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("открытие базы: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("подключение к базе: %w", err)
	}
	return database, nil
}
