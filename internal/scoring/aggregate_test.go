package scoring

import (
	"math"
	"testing"

	"github.com/Spok95/dance-contest-core/internal/models"
	"go.uber.org/zap"
)

func score(judgeID int64, vals [5]float64) models.Score {
	return models.Score{
		JudgeID:           judgeID,
		PerformanceID:     1,
		Technical:         vals[0],
		Musical:           vals[1],
		Performance:       vals[2],
		Styling:           vals[3],
		OverallImpression: vals[4],
	}
}

func TestAggregate_TwoJudges(t *testing.T) {
	// судья A — 80 в сумме, судья B — 90
	scores := []models.Score{
		score(1, [5]float64{16, 16, 16, 16, 16}),
		score(2, [5]float64{18, 18, 18, 18, 18}),
	}
	agg := Aggregate(zap.NewNop(), 1, scores)
	if agg == nil {
		t.Fatal("ожидали результат, получили nil")
	}
	if agg.TotalScore != 170 {
		t.Fatalf("сумма: ожидали 170, получили %v", agg.TotalScore)
	}
	if agg.JudgeCount != 2 {
		t.Fatalf("судей: ожидали 2, получили %d", agg.JudgeCount)
	}
	if agg.AverageScore != 85 {
		t.Fatalf("средний: ожидали 85, получили %v", agg.AverageScore)
	}
	if agg.Percentage != 85 {
		t.Fatalf("процент: ожидали 85, получили %v", agg.Percentage)
	}
	// ровно 85% — уже Legend
	if tier := MedalTier(agg.Percentage); tier != "Legend" {
		t.Fatalf("медаль: ожидали Legend, получили %s", tier)
	}
}

func TestAggregate_NoScores(t *testing.T) {
	if agg := Aggregate(zap.NewNop(), 7, nil); agg != nil {
		t.Fatalf("без оценок ожидали nil, получили %+v", agg)
	}
}

func TestAggregate_DropsGarbage(t *testing.T) {
	scores := []models.Score{
		score(1, [5]float64{20, 20, 20, 20, 20}),
		score(2, [5]float64{-1, 10, 10, 10, 10}),         // отрицательный критерий
		score(3, [5]float64{math.NaN(), 10, 10, 10, 10}), // NaN
	}
	agg := Aggregate(zap.NewNop(), 1, scores)
	if agg == nil {
		t.Fatal("ожидали результат по валидной оценке")
	}
	if agg.JudgeCount != 1 || agg.TotalScore != 100 {
		t.Fatalf("мусорные оценки должны отбрасываться целиком: %+v", agg)
	}
	if agg.Percentage != 100 {
		t.Fatalf("процент: ожидали 100, получили %v", agg.Percentage)
	}
}

func TestAggregate_AllGarbage(t *testing.T) {
	scores := []models.Score{
		score(1, [5]float64{math.NaN(), 0, 0, 0, 0}),
	}
	if agg := Aggregate(zap.NewNop(), 1, scores); agg != nil {
		t.Fatalf("ожидали nil, получили %+v", agg)
	}
}
