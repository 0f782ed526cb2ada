package fees

import (
	"errors"
	"fmt"

	"github.com/Spok95/dance-contest-core/internal/models"
)

var (
	ErrUnknownPerformanceType = errors.New("неизвестный тип выступления")
	ErrUnknownMasteryLevel    = errors.New("неизвестный уровень мастерства")
	ErrNoParticipants         = errors.New("в заявке должен быть хотя бы один участник")
	ErrBadSoloCount           = errors.New("количество соло должно быть не меньше 1")
)

// Input — заявка на расчёт стоимости.
type Input struct {
	Type         models.PerformanceType
	MasteryLevel models.MasteryLevel
	Participants []int64
	// SoloCount — сколько соло объединяет заявка (пакетные цены).
	// Учитывается только для Type == Solo.
	SoloCount int
}

// Calculate — чистый расчёт стоимости заявки по тарифной таблице и снимку
// записей о регистрационных взносах. Записи не изменяет: фиксация оплаты —
// отдельное действие администратора (db.MarkPaid / db.MarkUnpaid).
func Calculate(in Input, records map[int64]models.RegistrationFeeRecord) (*models.FeeBreakdown, error) {
	if len(in.Participants) == 0 {
		return nil, ErrNoParticipants
	}
	rate, ok := RegistrationRate(in.MasteryLevel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMasteryLevel, in.MasteryLevel)
	}

	regFee, regNote, owing := registrationPart(in, rate, records)

	perfFee, perfNote, err := performancePart(in)
	if err != nil {
		return nil, err
	}

	return &models.FeeBreakdown{
		RegistrationFee:       regFee,
		PerformanceFee:        perfFee,
		TotalFee:              regFee + perfFee,
		Breakdown:             perfNote,
		RegistrationBreakdown: regNote,
		OwingDancerIDs:        owing,
	}, nil
}

// registrationPart — взнос только с тех участников, чья запись не покрывает
// запрошенный уровень мастерства.
func registrationPart(in Input, rate int, records map[int64]models.RegistrationFeeRecord) (int, string, []int64) {
	var owing []int64
	for _, id := range in.Participants {
		if rec, ok := records[id]; ok && rec.Satisfies(in.MasteryLevel) {
			continue
		}
		owing = append(owing, id)
	}

	total := len(in.Participants)
	fee := len(owing) * rate

	var note string
	switch {
	case len(owing) == 0:
		note = fmt.Sprintf("регистрационный взнос: 0 ₽ — оплачен всеми %d участниками", total)
	case len(owing) == total:
		note = fmt.Sprintf("регистрационный взнос: %d × %d ₽ = %d ₽ — не оплачен никем", total, rate, fee)
	default:
		note = fmt.Sprintf("регистрационный взнос: %d из %d не оплатили: %d × %d ₽ = %d ₽",
			len(owing), total, len(owing), rate, fee)
	}
	return fee, note, owing
}

func performancePart(in Input) (int, string, error) {
	n := len(in.Participants)
	switch in.Type {
	case models.Solo:
		if in.SoloCount < 1 {
			return 0, "", ErrBadSoloCount
		}
		fee := SoloPackagePrice(in.SoloCount)
		return fee, fmt.Sprintf("соло × %d: %d ₽", in.SoloCount, fee), nil
	case models.Duet, models.Trio:
		fee := n * duetTrioRate
		return fee, fmt.Sprintf("%s: %d × %d ₽ = %d ₽", typeLabel(in.Type), n, duetTrioRate, fee), nil
	case models.Group:
		rate := GroupRate(n)
		fee := n * rate
		return fee, fmt.Sprintf("группа: %d × %d ₽ = %d ₽", n, rate, fee), nil
	}
	return 0, "", fmt.Errorf("%w: %q", ErrUnknownPerformanceType, in.Type)
}

func typeLabel(t models.PerformanceType) string {
	switch t {
	case models.Solo:
		return "соло"
	case models.Duet:
		return "дуэт"
	case models.Trio:
		return "трио"
	case models.Group:
		return "группа"
	}
	return string(t)
}
