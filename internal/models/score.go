package models

import (
	"fmt"
	"time"
)

// CriterionMax — максимум по одному критерию, JudgeMax — по судье в сумме.
const (
	CriterionMax = 20.0
	JudgeMax     = 100.0 // 5 критериев по 20 баллов
)

// Score — оценка одного судьи за один номер. На пару (судья, номер)
// запись всегда одна: повторная отправка перезаписывает прежнюю.
type Score struct {
	ID                int64     `db:"id"`
	JudgeID           int64     `db:"judge_id"`
	PerformanceID     int64     `db:"performance_id"`
	Technical         float64   `db:"technical"`
	Musical           float64   `db:"musical"`
	Performance       float64   `db:"performance"`
	Styling           float64   `db:"styling"`
	OverallImpression float64   `db:"overall_impression"`
	Comments          *string   `db:"comments"`
	SubmittedAt       time.Time `db:"submitted_at"`
}

// Criteria — подоценки в фиксированном порядке.
func (s Score) Criteria() [5]float64 {
	return [5]float64{s.Technical, s.Musical, s.Performance, s.Styling, s.OverallImpression}
}

// Validate проверяет диапазон [0,20] по каждому критерию.
func (s Score) Validate() error {
	names := [5]string{"техника", "музыкальность", "исполнение", "стиль", "общее впечатление"}
	for i, v := range s.Criteria() {
		if v < 0 || v > CriterionMax {
			return fmt.Errorf("балл «%s» вне диапазона [0,%v]: %v", names[i], CriterionMax, v)
		}
	}
	return nil
}
