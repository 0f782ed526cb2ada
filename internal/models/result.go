package models

// AggregatedResult — сводный результат одного номера по всем судьям.
// Не хранится в базе, считается заново при каждом запросе.
type AggregatedResult struct {
	PerformanceID int64
	TotalScore    float64
	AverageScore  float64
	JudgeCount    int
	Percentage    float64
}

// RankingRow — строка итогового рейтинга для внешнего потребителя.
type RankingRow struct {
	PerformanceID  int64           `json:"performance_id"`
	EventID        int64           `json:"event_id"`
	Region         string          `json:"region"`
	AgeCategory    string          `json:"age_category"`
	Type           PerformanceType `json:"performance_type"`
	Style          string          `json:"dance_style"`
	Title          string          `json:"title"`
	ContestantName string          `json:"contestant_name"`
	ItemNumber     *int            `json:"item_number,omitempty"`
	TotalScore     float64         `json:"total_score"`
	AverageScore   float64         `json:"average_score"`
	JudgeCount     int             `json:"judge_count"`
	Percentage     float64         `json:"percentage"`
	Rank           int             `json:"rank"`
	MedalTier      string          `json:"medal_tier"`
}
