package scoring

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/Spok95/dance-contest-core/internal/db"
	"github.com/Spok95/dance-contest-core/internal/models"
	"go.uber.org/zap"
)

// PartitionField — поле составного ключа категорийного рейтинга.
type PartitionField string

const (
	ByRegion      PartitionField = "region"
	ByAgeCategory PartitionField = "age_category"
	ByType        PartitionField = "performance_type"
	ByStyle       PartitionField = "dance_style"
)

// ParsePartitionField распознаёт поле группировки из внешнего запроса.
func ParsePartitionField(s string) (PartitionField, error) {
	switch PartitionField(s) {
	case ByRegion, ByAgeCategory, ByType, ByStyle:
		return PartitionField(s), nil
	}
	return "", fmt.Errorf("неизвестное поле группировки: %q", s)
}

// Filter — условия отбора номеров; пустые поля не фильтруют.
type Filter struct {
	EventIDs        []int64
	AgeCategory     string
	PerformanceType models.PerformanceType
	Region          string
}

// Ranking считает итоговые рейтинги поверх хранилища:
// выбирает кандидатов, агрегирует оценки, сортирует и расставляет места.
type Ranking struct {
	db  *sql.DB
	log *zap.Logger
}

func NewRanking(database *sql.DB, log *zap.Logger) *Ranking {
	return &Ranking{db: database, log: log}
}

// GetRankings — общий рейтинг: один отсортированный список, места сквозные
// по всему отфильтрованному множеству.
func (r *Ranking) GetRankings(ctx context.Context, f Filter) ([]models.RankingRow, error) {
	rows, err := r.candidates(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("расчёт рейтинга не выполнен: %w", err)
	}
	sortByTotalDesc(rows)
	assignDenseRanks(rows)
	return rows, nil
}

// GetRankingsByCategory — категорийный рейтинг: кандидаты разбиваются по
// составному ключу из полей parts, внутри каждой корзины своя сортировка
// и места заново с первого.
func (r *Ranking) GetRankingsByCategory(ctx context.Context, f Filter, parts []PartitionField) ([]models.RankingRow, error) {
	if len(parts) == 0 {
		return r.GetRankings(ctx, f)
	}
	rows, err := r.candidates(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("расчёт рейтинга не выполнен: %w", err)
	}

	buckets := make(map[string][]models.RankingRow)
	var order []string
	for _, row := range rows {
		k := partitionKey(row, parts)
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], row)
	}
	sort.Strings(order)

	out := make([]models.RankingRow, 0, len(rows))
	for _, k := range order {
		b := buckets[k]
		sortByTotalDesc(b)
		assignDenseRanks(b)
		out = append(out, b...)
	}
	return out, nil
}

// candidates — номера, прошедшие фильтры и имеющие хотя бы одну оценку,
// с уже подсчитанной агрегацией и медальной категорией. Пустой результат —
// валидный успех, отличимый от ошибки хранилища.
func (r *Ranking) candidates(ctx context.Context, f Filter) ([]models.RankingRow, error) {
	perfs, err := db.ListForRanking(ctx, r.db, db.PerformanceFilter{
		EventIDs:        f.EventIDs,
		AgeCategory:     f.AgeCategory,
		PerformanceType: f.PerformanceType,
		Region:          f.Region,
	})
	if err != nil {
		return nil, err
	}
	if len(perfs) == 0 {
		return []models.RankingRow{}, nil
	}

	ids := make([]int64, 0, len(perfs))
	for _, p := range perfs {
		ids = append(ids, p.ID)
	}
	scores, err := db.ScoresForPerformances(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	names, err := db.ParticipantNames(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]models.RankingRow, 0, len(perfs))
	for _, p := range perfs {
		agg := Aggregate(r.log, p.ID, scores[p.ID])
		if agg == nil {
			continue // без оценок в рейтинг не попадает
		}
		rows = append(rows, models.RankingRow{
			PerformanceID:  p.ID,
			EventID:        p.EventID,
			Region:         p.Region,
			AgeCategory:    p.AgeCategory,
			Type:           p.Type,
			Style:          p.Style,
			Title:          p.Title,
			ContestantName: ResolveContestantName(names[p.ID], p.ContestantName),
			ItemNumber:     p.ItemNumber,
			TotalScore:     agg.TotalScore,
			AverageScore:   agg.AverageScore,
			JudgeCount:     agg.JudgeCount,
			Percentage:     agg.Percentage,
			MedalTier:      MedalTier(agg.Percentage),
		})
	}
	return rows, nil
}

// Сортировка по сумме по убыванию; при равенстве — по id номера, чтобы
// повторные вызовы возвращали одинаковый порядок.
func sortByTotalDesc(rows []models.RankingRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		return rows[i].PerformanceID < rows[j].PerformanceID
	})
}

// Плотное ранжирование: равные суммы делят место, каждая следующая
// меньшая сумма получает место на единицу больше. Мест без обладателя
// не бывает: [100,100,90] → [1,1,2], а не [1,1,3].
func assignDenseRanks(rows []models.RankingRow) {
	rank := 0
	for i := range rows {
		if i == 0 || rows[i].TotalScore != rows[i-1].TotalScore {
			rank++
		}
		rows[i].Rank = rank
	}
}

func partitionKey(row models.RankingRow, parts []PartitionField) string {
	vals := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p {
		case ByRegion:
			vals = append(vals, row.Region)
		case ByAgeCategory:
			vals = append(vals, row.AgeCategory)
		case ByType:
			vals = append(vals, string(row.Type))
		case ByStyle:
			vals = append(vals, row.Style)
		}
	}
	return strings.Join(vals, "|")
}
