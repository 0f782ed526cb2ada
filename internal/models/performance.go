package models

import (
	"fmt"
	"time"
)

type PerformanceType string

const (
	Solo  PerformanceType = "solo"
	Duet  PerformanceType = "duet"
	Trio  PerformanceType = "trio"
	Group PerformanceType = "group"
)

// ParsePerformanceType нормализует тип выступления из внешнего запроса.
func ParsePerformanceType(s string) (PerformanceType, error) {
	switch PerformanceType(s) {
	case Solo, Duet, Trio, Group:
		return PerformanceType(s), nil
	}
	return "", fmt.Errorf("неизвестный тип выступления: %q", s)
}

type MasteryLevel string

const (
	Water MasteryLevel = "water" // «Вода» — начинающие
	Fire  MasteryLevel = "fire"  // «Огонь» — продвинутые
)

func ParseMasteryLevel(s string) (MasteryLevel, error) {
	switch MasteryLevel(s) {
	case Water, Fire:
		return MasteryLevel(s), nil
	}
	return "", fmt.Errorf("неизвестный уровень мастерства: %q", s)
}

// Performance — один конкурсный номер (соло/дуэт/трио/группа).
// После одобрения заявки запись не меняется, кроме номера в программе
// и флага снятия с судейства (см. PerformancePatch).
type Performance struct {
	ID             int64           `db:"id"`
	EventID        int64           `db:"event_id"`
	AgeCategory    string          `db:"age_category"`
	Type           PerformanceType `db:"performance_type"`
	Style          string          `db:"dance_style"`
	Title          string          `db:"title"`
	Choreographer  *string         `db:"choreographer"`
	MasteryLevel   MasteryLevel    `db:"mastery_level"`
	ContestantName string          `db:"contestant_name"`
	ItemNumber     *int            `db:"item_number"`
	Withdrawn      bool            `db:"withdrawn"`
	CreatedAt      time.Time       `db:"created_at"`
	ParticipantIDs []int64
}

// PerformancePatch — частичное обновление номера: заполненные поля
// попадают в UPDATE, пустые не трогаются.
type PerformancePatch struct {
	ItemNumber *int
	Withdrawn  *bool
}

func (p PerformancePatch) Empty() bool {
	return p.ItemNumber == nil && p.Withdrawn == nil
}
