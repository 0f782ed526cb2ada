package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/Spok95/dance-contest-core/internal/models"
)

// SeedDemo наполняет пустую базу тестовым конкурсом: одно событие,
// десяток танцоров и по номеру каждого типа. Для dev-окружения.
func SeedDemo(ctx context.Context, database *sql.DB) error {
	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return fmt.Errorf("проверка таблицы events: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("🧪 Наполнение базы демонстрационным конкурсом...")

	eventID, err := CreateEvent(ctx, database, "Весенний кубок", "Центральный")
	if err != nil {
		return err
	}

	names := []string{
		"Иванова Алиса", "Петрова Мария", "Сидорова Анна", "Кузнецова Вера",
		"Смирнова Дарья", "Волкова Ольга", "Павлова Кира", "Орлова Нина",
		"Фёдорова Юлия", "Морозова Ева",
	}
	dancerIDs := make([]int64, 0, len(names))
	for _, n := range names {
		id, err := CreateDancer(ctx, database, n)
		if err != nil {
			return err
		}
		dancerIDs = append(dancerIDs, id)
	}

	demos := []models.Performance{
		{
			EventID: eventID, AgeCategory: "юниоры", Type: models.Solo, Style: "джаз-фанк",
			Title: "Рассвет", MasteryLevel: models.Water, ParticipantIDs: dancerIDs[:1],
		},
		{
			EventID: eventID, AgeCategory: "юниоры", Type: models.Duet, Style: "контемпорари",
			Title: "Отражение", MasteryLevel: models.Fire, ParticipantIDs: dancerIDs[1:3],
		},
		{
			EventID: eventID, AgeCategory: "взрослые", Type: models.Trio, Style: "хип-хоп",
			Title: "Три ветра", MasteryLevel: models.Water, ParticipantIDs: dancerIDs[3:6],
		},
		{
			EventID: eventID, AgeCategory: "взрослые", Type: models.Group, Style: "народный",
			Title: "Хоровод", MasteryLevel: models.Fire, ParticipantIDs: dancerIDs,
		},
	}
	for _, p := range demos {
		if _, err := CreatePerformance(ctx, database, p); err != nil {
			return fmt.Errorf("демо-номер %q: %w", p.Title, err)
		}
	}

	log.Println("✅ Демо-данные добавлены.")
	return nil
}
