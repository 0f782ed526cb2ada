package scoring

// Медальные категории по проценту от максимума возможных баллов.
// Таблица сканируется сверху вниз, граница принадлежит старшей категории:
// ровно 70.0% — уже Silver, ровно 85.0% — уже Legend.
// Всё ниже 70% (включая спорный интервал 69–70 из старого положения) — Bronze.
type medalBand struct {
	min   float64
	label string
}

var medalBands = []medalBand{
	{95, "Elite"},
	{90, "Opus"},
	{85, "Legend"},
	{80, "Gold"},
	{75, "Silver+"},
	{70, "Silver"},
}

const medalBronze = "Bronze"

// MedalTier — медальная категория для процента. Тотальная функция:
// любой процент (в том числе >100 из-за аномалий данных) получает категорию.
func MedalTier(percentage float64) string {
	for _, b := range medalBands {
		if percentage >= b.min {
			return b.label
		}
	}
	return medalBronze
}
