package fees

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/dance-contest-core/internal/models"
)

func paidRecord(dancerID int64, level models.MasteryLevel) models.RegistrationFeeRecord {
	now := time.Now()
	return models.RegistrationFeeRecord{
		DancerID: dancerID, Paid: true, MasteryLevel: &level, PaidAt: &now,
	}
}

func TestCalculate_PartialOwing(t *testing.T) {
	// из трёх участниц одна уже оплатила взнос под нужным уровнем
	in := Input{
		Type:         models.Trio,
		MasteryLevel: models.Water,
		Participants: []int64{1, 2, 3},
	}
	records := map[int64]models.RegistrationFeeRecord{
		2: paidRecord(2, models.Water),
	}
	fb, err := Calculate(in, records)
	if err != nil {
		t.Fatal(err)
	}
	if fb.RegistrationFee != 2*1000 {
		t.Fatalf("взнос: ожидали 2000, получили %d", fb.RegistrationFee)
	}
	if !reflect.DeepEqual(fb.OwingDancerIDs, []int64{1, 3}) {
		t.Fatalf("должники: ожидали [1 3], получили %v", fb.OwingDancerIDs)
	}
	if !strings.Contains(fb.RegistrationBreakdown, "2 из 3") {
		t.Fatalf("расшифровка должна указывать 2 из 3: %q", fb.RegistrationBreakdown)
	}
}

func TestCalculate_WrongLevelDoesNotCount(t *testing.T) {
	// оплата под «Водой» не покрывает «Огонь»
	in := Input{
		Type:         models.Solo,
		MasteryLevel: models.Fire,
		Participants: []int64{5},
		SoloCount:    1,
	}
	records := map[int64]models.RegistrationFeeRecord{
		5: paidRecord(5, models.Water),
	}
	fb, err := Calculate(in, records)
	if err != nil {
		t.Fatal(err)
	}
	if fb.RegistrationFee != 1500 {
		t.Fatalf("взнос: ожидали 1500, получили %d", fb.RegistrationFee)
	}
}

func TestCalculate_AllPaid(t *testing.T) {
	in := Input{
		Type:         models.Duet,
		MasteryLevel: models.Water,
		Participants: []int64{1, 2},
	}
	records := map[int64]models.RegistrationFeeRecord{
		1: paidRecord(1, models.Water),
		2: paidRecord(2, models.Water),
	}
	fb, err := Calculate(in, records)
	if err != nil {
		t.Fatal(err)
	}
	if fb.RegistrationFee != 0 || len(fb.OwingDancerIDs) != 0 {
		t.Fatalf("никто не должен: %+v", fb)
	}
	if !strings.Contains(fb.RegistrationBreakdown, "оплачен всеми") {
		t.Fatalf("расшифровка: %q", fb.RegistrationBreakdown)
	}
}

func TestCalculate_DuetTotal(t *testing.T) {
	// дуэт «Огня», никто не оплатил: 2×1500 + 2×900
	in := Input{
		Type:         models.Duet,
		MasteryLevel: models.Fire,
		Participants: []int64{10, 11},
	}
	fb, err := Calculate(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fb.RegistrationFee != 3000 || fb.PerformanceFee != 1800 || fb.TotalFee != 4800 {
		t.Fatalf("ожидали 3000/1800/4800, получили %d/%d/%d",
			fb.RegistrationFee, fb.PerformanceFee, fb.TotalFee)
	}
}

func TestSoloPackage_FifthFree(t *testing.T) {
	if SoloPackagePrice(5) != SoloPackagePrice(4) {
		t.Fatalf("пятое соло в подарок: price(5)=%d, price(4)=%d",
			SoloPackagePrice(5), SoloPackagePrice(4))
	}
	if got, want := SoloPackagePrice(6), SoloPackagePrice(5)+1000; got != want {
		t.Fatalf("шестое соло поштучно: ожидали %d, получили %d", want, got)
	}
	if got, want := SoloPackagePrice(8), SoloPackagePrice(5)+3*1000; got != want {
		t.Fatalf("ожидали %d, получили %d", want, got)
	}
}

func TestGroupRate_Threshold(t *testing.T) {
	if GroupRate(9) != 700 {
		t.Fatalf("малая группа: ожидали 700, получили %d", GroupRate(9))
	}
	if GroupRate(10) != 550 {
		t.Fatalf("от 10 человек тариф большой группы: получили %d", GroupRate(10))
	}
}

func TestCalculate_GroupFee(t *testing.T) {
	ids := make([]int64, 12)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	fb, err := Calculate(Input{
		Type: models.Group, MasteryLevel: models.Water, Participants: ids,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fb.PerformanceFee != 12*550 {
		t.Fatalf("группа из 12: ожидали %d, получили %d", 12*550, fb.PerformanceFee)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Input{
		Type:         models.Solo,
		MasteryLevel: models.Water,
		Participants: []int64{1},
		SoloCount:    3,
	}
	records := map[int64]models.RegistrationFeeRecord{1: paidRecord(1, models.Water)}
	a, err := Calculate(in, records)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Calculate(in, records)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("повторный расчёт дал другой результат: %+v vs %+v", a, b)
	}
}

func TestCalculate_Errors(t *testing.T) {
	if _, err := Calculate(Input{Type: "ensemble", MasteryLevel: models.Water, Participants: []int64{1}}, nil); !errors.Is(err, ErrUnknownPerformanceType) {
		t.Fatalf("ожидали ErrUnknownPerformanceType, получили %v", err)
	}
	if _, err := Calculate(Input{Type: models.Solo, MasteryLevel: "lava", Participants: []int64{1}, SoloCount: 1}, nil); !errors.Is(err, ErrUnknownMasteryLevel) {
		t.Fatalf("ожидали ErrUnknownMasteryLevel, получили %v", err)
	}
	if _, err := Calculate(Input{Type: models.Solo, MasteryLevel: models.Water}, nil); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("ожидали ErrNoParticipants, получили %v", err)
	}
	if _, err := Calculate(Input{Type: models.Solo, MasteryLevel: models.Water, Participants: []int64{1}}, nil); !errors.Is(err, ErrBadSoloCount) {
		t.Fatalf("ожидали ErrBadSoloCount, получили %v", err)
	}
}
