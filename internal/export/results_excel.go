package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Spok95/dance-contest-core/internal/models"
	"github.com/xuri/excelize/v2"
)

// ResultsSheet — имя листа итогового протокола.
const ResultsSheet = "Протокол"

// GenerateResultsReport формирует xlsx-протокол по уже отранжированным
// строкам (порядок и места не пересчитываются) и возвращает путь к файлу
// во временной директории.
func GenerateResultsReport(rows []models.RankingRow, title string) (string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return "", fmt.Errorf("переименование листа: %w", err)
	}

	headers := []string{
		"Место", "Участники", "Название", "Возрастная категория", "Тип",
		"Стиль", "Судей", "Сумма", "Средний", "Процент", "Медаль",
	}
	for i, h := range headers {
		cell := fmt.Sprintf("%s1", colName(i+1))
		if err := f.SetCellStr(ResultsSheet, cell, h); err != nil {
			return "", fmt.Errorf("заголовок %s: %w", cell, err)
		}
	}

	for i, r := range rows {
		row := i + 2
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("A%d", row), r.Rank)
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("B%d", row), r.ContestantName)
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("C%d", row), r.Title)
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("D%d", row), r.AgeCategory)
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("E%d", row), string(r.Type))
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("F%d", row), r.Style)
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("G%d", row), r.JudgeCount)
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("H%d", row), r.TotalScore)
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("I%d", row), r.AverageScore)
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("J%d", row), fmt.Sprintf("%.1f%%", r.Percentage))
		_ = f.SetCellValue(ResultsSheet, fmt.Sprintf("K%d", row), r.MedalTier)
	}

	if err := ApplyProtocolFormatting(f, ResultsSheet); err != nil {
		return "", err
	}

	_ = f.SetDocProps(&excelize.DocProperties{Title: title})

	filename := fmt.Sprintf("results_%d.xlsx", time.Now().Unix())
	path := filepath.Join(os.TempDir(), filename)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("сохранение протокола: %w", err)
	}
	return path, nil
}
