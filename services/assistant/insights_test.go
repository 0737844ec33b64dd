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
	"testing"

	"github.com/mettakip/metassist/services/erp"
	"github.com/stretchr/testify/assert"
)

func TestGenerateInsights_EmptySnapshotYieldsZeroRates(t *testing.T) {
	insights := GenerateInsights(Snapshot{})

	assert.Equal(t, 0, insights.DelayedOrders.Count)
	assert.Equal(t, 0.0, insights.DelayedOrders.Percentage)
	assert.Equal(t, 0, insights.MaterialShortages.CriticalCount)
	assert.Equal(t, 0.0, insights.MaterialShortages.CriticalPercentage)
	assert.False(t, math.IsNaN(insights.DelayedOrders.Percentage))
	assert.False(t, math.IsNaN(insights.MaterialShortages.CriticalPercentage))
}

func TestGenerateInsights_RatesRoundedToOneDecimal(t *testing.T) {
	snap := Snapshot{
		Orders: []erp.Order{
			{Status: erp.StatusDelayed},
			{Status: erp.StatusInProgress},
			{Status: erp.StatusInProgress},
		},
		Materials: []erp.Material{
			{Status: erp.MaterialCritical},
			{Status: erp.MaterialCritical},
			{Status: erp.MaterialOrdered},
			{Status: erp.MaterialInStock},
			{Status: erp.MaterialInStock},
			{Status: erp.MaterialInStock},
			{Status: erp.MaterialInStock},
		},
		Stats: erp.ProductionStats{ProductionEfficiency: 78},
	}

	insights := GenerateInsights(snap)

	assert.Equal(t, 1, insights.DelayedOrders.Count)
	assert.InDelta(t, 33.3, insights.DelayedOrders.Percentage, 0.001)
	assert.Equal(t, 2, insights.MaterialShortages.CriticalCount)
	assert.InDelta(t, 28.6, insights.MaterialShortages.CriticalPercentage, 0.001)
	assert.Equal(t, 78, insights.EfficiencyTrends.CurrentEfficiency)
	assert.Equal(t, 1, insights.Bottlenecks.AffectedOrders)
	assert.Len(t, insights.Recommendations, 4)
	assert.Empty(t, insights.AnalysisText)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, percentage(3, 0))
	assert.Equal(t, 0.0, percentage(0, 10))
	assert.Equal(t, 50.0, percentage(1, 2))
	assert.InDelta(t, 66.7, percentage(2, 3), 0.001)
}
