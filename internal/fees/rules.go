package fees

import "github.com/Spok95/dance-contest-core/internal/models"

// Тарифная таблица сезона, суммы в рублях.
// Меняется только вместе с положением о конкурсе.

// Регистрационный взнос с человека по уровню мастерства.
var registrationRate = map[models.MasteryLevel]int{
	models.Water: 1000,
	models.Fire:  1500,
}

// Пакетные цены на соло: ключ — количество соло в заявке.
// Пятое соло в подарок: цена пакета из пяти равна цене четырёх.
var soloPackagePrice = map[int]int{
	1: 1500,
	2: 2800,
	3: 3900,
	4: 4800,
	5: 4800,
}

const (
	soloPackageCap     = 5    // дальше пакета — поштучно
	extraSoloRate      = 1000 // каждое соло сверх пяти
	duetTrioRate       = 900  // дуэт/трио, с человека
	groupSmallRate     = 700  // группа до 10 человек, с человека
	groupLargeRate     = 550  // группа от 10 человек, с человека
	groupLargeMinCount = 10
)

// RegistrationRate — взнос с человека для уровня; false, если уровень неизвестен.
func RegistrationRate(level models.MasteryLevel) (int, bool) {
	r, ok := registrationRate[level]
	return r, ok
}

// SoloPackagePrice — цена пакета из n соло.
func SoloPackagePrice(n int) int {
	if n <= soloPackageCap {
		return soloPackagePrice[n]
	}
	return soloPackagePrice[soloPackageCap] + (n-soloPackageCap)*extraSoloRate
}

// GroupRate — тариф с человека для группы из n участников.
func GroupRate(n int) int {
	if n >= groupLargeMinCount {
		return groupLargeRate
	}
	return groupSmallRate
}
