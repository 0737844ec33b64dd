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
	"testing"
	"time"

	"github.com/mettakip/metassist/services/erp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictMaintenance_NewEquipmentHasZeroRisk(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	eq := erp.Equipment{ID: "EQP-1", Name: "Test Makinesi", InstallDate: now}

	prediction := PredictMaintenance(eq, now)

	assert.Equal(t, 0, prediction.FailureProbability.Next30Days)
	assert.Equal(t, 0, prediction.FailureProbability.Next60Days)
	assert.Equal(t, 0, prediction.FailureProbability.Next90Days)
	for _, c := range prediction.LikelyFailureComponents {
		assert.Equal(t, 0, c.Probability, c.Component)
	}
	assert.Equal(t, 0, prediction.EquipmentInfo.OperatingHours)
}

func TestPredictMaintenance_OldEquipmentSaturatesAt95(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	eq := erp.Equipment{
		ID: "EQP-2", Name: "Eski Pres",
		InstallDate: now.AddDate(-20, 0, 0),
	}

	prediction := PredictMaintenance(eq, now)

	// Baseline caps at 0.8, so the 60- and 90-day windows and the motor
	// bearing all hit the 95 ceiling; nothing may exceed it.
	assert.Equal(t, 56, prediction.FailureProbability.Next30Days) // 0.8*100*0.7
	assert.Equal(t, 95, prediction.FailureProbability.Next60Days)
	assert.Equal(t, 95, prediction.FailureProbability.Next90Days)

	require.Len(t, prediction.LikelyFailureComponents, 3)
	assert.Equal(t, 95, prediction.LikelyFailureComponents[0].Probability) // 1.2x capped
	assert.Equal(t, 64, prediction.LikelyFailureComponents[1].Probability) // 0.8x
	assert.Equal(t, 48, prediction.LikelyFailureComponents[2].Probability) // 0.6x
	for _, c := range prediction.LikelyFailureComponents {
		assert.LessOrEqual(t, c.Probability, 95)
	}
}

func TestPredictMaintenance_BaselineScaling(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	// 300 days old: age = 10 months, baseline = 0.15.
	eq := erp.Equipment{ID: "EQP-3", InstallDate: now.AddDate(0, 0, -300)}

	prediction := PredictMaintenance(eq, now)

	assert.Equal(t, 11, prediction.FailureProbability.Next30Days) // round(15*0.7)
	assert.Equal(t, 23, prediction.FailureProbability.Next60Days) // round(15*1.5)
	assert.Equal(t, 35, prediction.FailureProbability.Next90Days) // round(15*2.3)
	assert.Equal(t, 18, prediction.LikelyFailureComponents[0].Probability)
	assert.Equal(t, 12, prediction.LikelyFailureComponents[1].Probability)
	assert.Equal(t, 9, prediction.LikelyFailureComponents[2].Probability)

	// 10 months × 30 days × 8 hours.
	assert.Equal(t, 2400, prediction.EquipmentInfo.OperatingHours)
}

func TestPredictMaintenance_DefaultsAndServicePlan(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	prediction := PredictMaintenance(erp.Equipment{ID: "EQP-4"}, now)

	assert.Equal(t, "Bilinmeyen Ekipman", prediction.EquipmentInfo.Name)
	assert.Equal(t, "Bilinmeyen Tip", prediction.EquipmentInfo.Type)
	assert.Equal(t, "Belirtilmemiş", prediction.EquipmentInfo.Location)
	assert.Equal(t, "2023-01-01", prediction.EquipmentInfo.InstallDate)

	assert.Equal(t, "2024-05-31", prediction.RecommendedMaintenance.NextServiceDate)
	assert.Len(t, prediction.RecommendedMaintenance.MaintenanceActions, 4)
	assert.Equal(t, 2200, prediction.CostBenefitAnalysis.PreventiveMaintenance.Cost)
	assert.Equal(t, 9500, prediction.CostBenefitAnalysis.ReactiveMaintenance.EstimatedCost)
}
