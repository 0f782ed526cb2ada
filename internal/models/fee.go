package models

import "time"

// RegistrationFeeRecord — оплачен ли разовый регистрационный взнос танцора
// и под каким уровнем мастерства. Взнос засчитывается только при совпадении
// уровня: оплата «Воды» не покрывает «Огонь».
type RegistrationFeeRecord struct {
	DancerID     int64         `db:"dancer_id" json:"dancer_id"`
	Paid         bool          `db:"paid" json:"paid"`
	MasteryLevel *MasteryLevel `db:"mastery_level" json:"mastery_level,omitempty"`
	PaidAt       *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
}

// Satisfies — покрывает ли запись взнос для запрошенного уровня.
func (r RegistrationFeeRecord) Satisfies(level MasteryLevel) bool {
	return r.Paid && r.MasteryLevel != nil && *r.MasteryLevel == level
}

// FeeBreakdown — расчёт стоимости заявки. Считается заново при каждом
// запросе; сохранённая на заявке сумма — лишь снимок на момент подачи.
type FeeBreakdown struct {
	RegistrationFee       int     `json:"registration_fee"`
	PerformanceFee        int     `json:"performance_fee"`
	TotalFee              int     `json:"total_fee"`
	Breakdown             string  `json:"breakdown"`
	RegistrationBreakdown string  `json:"registration_breakdown"`
	OwingDancerIDs        []int64 `json:"owing_dancer_ids"`
}
