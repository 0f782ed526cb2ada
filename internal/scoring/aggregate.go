package scoring

import (
	"math"

	"github.com/Spok95/dance-contest-core/internal/models"
	"go.uber.org/zap"
)

// Aggregate сводит оценки всех судей одного номера в итог.
// Возвращает nil, если пригодных оценок нет — такой номер в рейтинг не попадает.
//
// Диапазоны [0,20] проверяются при приёме оценки; здесь только защита от
// мусора в хранилище: оценка судьи с отрицательным или NaN-критерием
// отбрасывается целиком с записью в лог, молча в сумму она не попадает.
func Aggregate(log *zap.Logger, performanceID int64, scores []models.Score) *models.AggregatedResult {
	var total float64
	count := 0
	for _, s := range scores {
		jt, ok := judgeTotal(s)
		if !ok {
			log.Warn("оценка судьи отброшена: некорректный критерий",
				zap.Int64("judge_id", s.JudgeID),
				zap.Int64("performance_id", performanceID))
			continue
		}
		total += jt
		count++
	}
	if count == 0 {
		return nil
	}
	maxPossible := float64(count) * models.JudgeMax
	return &models.AggregatedResult{
		PerformanceID: performanceID,
		TotalScore:    total,
		AverageScore:  total / float64(count),
		JudgeCount:    count,
		Percentage:    total / maxPossible * 100,
	}
}

func judgeTotal(s models.Score) (float64, bool) {
	sum := 0.0
	for _, v := range s.Criteria() {
		if v < 0 || math.IsNaN(v) {
			return 0, false
		}
		sum += v
	}
	return sum, true
}
