package scoring

import "strings"

// ResolveContestantName — имя участника в строке рейтинга.
// Приоритет: известные имена танцоров через запятую (группы и дуэты
// называются по составу, а не по подателю заявки); и только если ни одного
// имени нет — сохранённое в заявке имя.
func ResolveContestantName(participants []string, stored string) string {
	known := participants[:0:0]
	for _, p := range participants {
		if strings.TrimSpace(p) != "" {
			known = append(known, p)
		}
	}
	if len(known) > 0 {
		return strings.Join(known, ", ")
	}
	return stored
}
