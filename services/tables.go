package services

import (
	"encoding/json"
	"fmt"
	"os"

	"scholar-pulse/models"
)

// WeightCap beschreibt den Score-Beitrag einer Kategorie: weight Punkte bei
// voll ausgeschöpftem cap, darüber hinaus zählt nichts mehr.
type WeightCap struct {
	Weight float64 `json:"weight"`
	Cap    int     `json:"cap"`
}

// WeightTable mappt Kategorie → (weight, cap). Injected configuration; the
// engine never hardcodes evaluation constants.
type WeightTable map[models.Category]WeightCap

// StandardsTable mappt Kategorie → international übliches Jahresminimum.
// Nur für Kategorien mit einem definierten Standard belegt.
type StandardsTable map[models.Category]int

// DefaultWeightTable ist der Seed-Stand der Gewichtungstabelle. Deployments
// überschreiben sie per WEIGHT_TABLE_PATH.
func DefaultWeightTable() WeightTable {
	return WeightTable{
		models.CategoryResearch:       {Weight: 30, Cap: 5},
		models.CategoryConference:     {Weight: 10, Cap: 3},
		models.CategorySeminar:        {Weight: 4, Cap: 4},
		models.CategoryWorkshop:       {Weight: 6, Cap: 4},
		models.CategoryCourse:         {Weight: 6, Cap: 3},
		models.CategoryAssignment:     {Weight: 4, Cap: 4},
		models.CategoryThankYouLetter: {Weight: 2, Cap: 2},
		models.CategoryCommittee:      {Weight: 6, Cap: 3},
		models.CategoryCertificate:    {Weight: 4, Cap: 3},
		models.CategoryJournal:        {Weight: 6, Cap: 2},
		models.CategorySupervision:    {Weight: 10, Cap: 4},
		models.CategoryReviewing:      {Weight: 4, Cap: 3},
		models.CategoryPosition:       {Weight: 4, Cap: 2},
		models.CategoryVolunteering:   {Weight: 2, Cap: 2},
		models.CategoryFieldVisit:     {Weight: 2, Cap: 2},
	}
}

// DefaultStandardsTable ist der Seed-Stand der internationalen Minima.
func DefaultStandardsTable() StandardsTable {
	return StandardsTable{
		models.CategoryResearch:    2,
		models.CategoryConference:  2,
		models.CategorySupervision: 2,
	}
}

// LoadWeightTable lädt die Tabelle aus einer JSON-Datei; leerer Pfad
// liefert die Defaults.
func LoadWeightTable(path string) (WeightTable, error) {
	if path == "" {
		return DefaultWeightTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weight table: %w", err)
	}
	var table WeightTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse weight table: %w", err)
	}
	return table, nil
}

// LoadStandardsTable lädt die Minima aus einer JSON-Datei; leerer Pfad
// liefert die Defaults.
func LoadStandardsTable(path string) (StandardsTable, error) {
	if path == "" {
		return DefaultStandardsTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standards table: %w", err)
	}
	var table StandardsTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse standards table: %w", err)
	}
	return table, nil
}
