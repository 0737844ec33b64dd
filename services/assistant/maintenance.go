// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"math"
	"time"

	"github.com/mettakip/metassist/services/erp"
)

// EquipmentInfo is the identity block of a maintenance prediction.
type EquipmentInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Location       string `json:"location"`
	InstallDate    string `json:"installDate"`
	OperatingHours int    `json:"operatingHours"`
}

// FailureProbability is the failure chance over the next three windows,
// in percent.
type FailureProbability struct {
	Next30Days int `json:"next30Days"`
	Next60Days int `json:"next60Days"`
	Next90Days int `json:"next90Days"`
}

// ComponentRisk is the failure chance and replacement cost of one
// component.
type ComponentRisk struct {
	Component                string `json:"component"`
	Probability              int    `json:"probability"`
	EstimatedReplacementCost int    `json:"estimatedReplacementCost"`
}

// RecommendedMaintenance is the suggested service plan.
type RecommendedMaintenance struct {
	NextServiceDate      string   `json:"nextServiceDate"`
	MaintenanceActions   []string `json:"maintenanceActions"`
	EstimatedServiceTime string   `json:"estimatedServiceTime"`
	EstimatedServiceCost int      `json:"estimatedServiceCost"`
}

// MaintenanceScenario compares one maintenance strategy.
type MaintenanceScenario struct {
	Cost                 int    `json:"cost,omitempty"`
	RiskReduction        string `json:"riskReduction,omitempty"`
	ProductionContinuity string `json:"productionContinuity,omitempty"`
	EstimatedDowntime    string `json:"estimatedDowntime,omitempty"`
	EstimatedCost        int    `json:"estimatedCost,omitempty"`
	ProductionLoss       string `json:"productionLoss,omitempty"`
}

// CostBenefitAnalysis weighs preventive against reactive maintenance.
type CostBenefitAnalysis struct {
	PreventiveMaintenance MaintenanceScenario `json:"preventiveMaintenance"`
	ReactiveMaintenance   MaintenanceScenario `json:"reactiveMaintenance"`
	Recommendation        string              `json:"recommendation"`
}

// MaintenancePrediction is the structured maintenance report for one
// machine. AnalysisText carries raw live-model output when it cannot be
// parsed as JSON.
type MaintenancePrediction struct {
	EquipmentInfo           EquipmentInfo          `json:"equipmentInfo"`
	FailureProbability      FailureProbability     `json:"failureProbability"`
	LikelyFailureComponents []ComponentRisk        `json:"likelyFailureComponents"`
	RecommendedMaintenance  RecommendedMaintenance `json:"recommendedMaintenance"`
	CostBenefitAnalysis     CostBenefitAnalysis    `json:"costBenefitAnalysis"`

	AnalysisText string `json:"analysisText,omitempty"`
}

// PredictMaintenance builds the rule-based maintenance report for a
// machine.
//
// Baseline risk grows with age, 1.5 percentage points per month, capped at
// 0.8. Window and component probabilities scale the baseline by fixed
// policy multipliers (0.7/1.5/2.3 for 30/60/90 days; 1.2/0.8/0.6 per
// component) and saturate at 95 percent. Operating hours assume an
// 8-hour shift since installation.
func PredictMaintenance(eq erp.Equipment, now time.Time) MaintenancePrediction {
	installDate := eq.InstallDate
	if installDate.IsZero() {
		installDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	ageInMonths := now.Sub(installDate).Hours() / 24 / 30
	if ageInMonths < 0 {
		ageInMonths = 0
	}
	baselineRisk := math.Min(0.8, ageInMonths*0.015)
	operatingHours := int(ageInMonths * 30 * 8)

	probability := func(multiplier float64) int {
		return int(math.Min(95, math.Round(baselineRisk*100*multiplier)))
	}

	return MaintenancePrediction{
		EquipmentInfo: EquipmentInfo{
			ID:             eq.ID,
			Name:           orDefault(eq.Name, "Bilinmeyen Ekipman"),
			Type:           orDefault(eq.Type, "Bilinmeyen Tip"),
			Location:       orDefault(eq.Location, "Belirtilmemiş"),
			InstallDate:    installDate.Format("2006-01-02"),
			OperatingHours: operatingHours,
		},
		FailureProbability: FailureProbability{
			Next30Days: probability(0.7),
			Next60Days: probability(1.5),
			Next90Days: probability(2.3),
		},
		LikelyFailureComponents: []ComponentRisk{
			{Component: "Motor Rulmanı", Probability: probability(1.2), EstimatedReplacementCost: 3500},
			{Component: "Kontrol Paneli", Probability: probability(0.8), EstimatedReplacementCost: 5200},
			{Component: "Güç Kaynağı", Probability: probability(0.6), EstimatedReplacementCost: 2800},
		},
		RecommendedMaintenance: RecommendedMaintenance{
			NextServiceDate: now.AddDate(0, 0, 30).Format("2006-01-02"),
			MaintenanceActions: []string{
				"Motor rulmanlarının kontrol edilmesi ve gerekiyorsa değiştirilmesi",
				"Kontrol paneli bağlantılarının sıkılması ve test edilmesi",
				"Güç kaynağı diagnostiği yapılması",
				"Tüm yağlama noktalarının kontrolü",
			},
			EstimatedServiceTime: "4 saat",
			EstimatedServiceCost: 2200,
		},
		CostBenefitAnalysis: CostBenefitAnalysis{
			PreventiveMaintenance: MaintenanceScenario{
				Cost:                 2200,
				RiskReduction:        "%75",
				ProductionContinuity: "Yüksek",
			},
			ReactiveMaintenance: MaintenanceScenario{
				EstimatedDowntime: "2-5 gün",
				EstimatedCost:     9500,
				ProductionLoss:    "Yaklaşık 120 birim",
			},
			Recommendation: "Önleyici bakım ekonomik olarak avantajlıdır. Reaktif bakım senaryosunda üretim kaybı " +
				"ve ekipman değişim maliyetleri toplam maliyeti 4-5 kat artıracaktır.",
		},
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
