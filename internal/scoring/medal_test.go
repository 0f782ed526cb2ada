package scoring

import "testing"

func TestMedalTier_Boundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, "Bronze"},
		{50, "Bronze"},
		{68.9, "Bronze"},
		{69.0, "Bronze"}, // спорный интервал старого положения — бронза
		{69.999, "Bronze"},
		{70.0, "Silver"}, // граница принадлежит старшей категории
		{74.9, "Silver"},
		{75.0, "Silver+"},
		{79.9, "Silver+"},
		{80.0, "Gold"},
		{84.9, "Gold"},
		{85.0, "Legend"},
		{89.9, "Legend"},
		{90.0, "Opus"},
		{94.9, "Opus"},
		{95.0, "Elite"},
		{100.0, "Elite"},
		{104.2, "Elite"}, // аномалия данных > 100% — всё равно высшая категория
	}
	for _, c := range cases {
		if got := MedalTier(c.pct); got != c.want {
			t.Fatalf("MedalTier(%v): ожидали %s, получили %s", c.pct, c.want, got)
		}
	}
}

func TestMedalTier_Monotonic(t *testing.T) {
	rank := map[string]int{
		"Bronze": 0, "Silver": 1, "Silver+": 2, "Gold": 3,
		"Legend": 4, "Opus": 5, "Elite": 6,
	}
	prev := -1
	for p := 0.0; p <= 110.0; p += 0.1 {
		r, ok := rank[MedalTier(p)]
		if !ok {
			t.Fatalf("неизвестная категория для %v", p)
		}
		if r < prev {
			t.Fatalf("категория понизилась на %v%%", p)
		}
		prev = r
	}
}
