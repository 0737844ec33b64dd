// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package erp

import "time"

// NewDemoStore returns a store seeded with the demo plant data used when
// no live ERP bridge is configured. The contents mirror the factory's
// real product range (RM 36 series cells) so demo answers read naturally.
func NewDemoStore() *Store {
	s := NewStore()
	now := time.Now()

	s.orders = []Order{
		{
			ID: "#0424-1251", OrderNo: "24-04-1251",
			Customer: "AYEDAŞ", CellType: "CB", Quantity: 12,
			Status: StatusDelayed, Progress: 45,
			DeliveryDate: now.AddDate(0, 0, 20),
			CreatedAt:    now.AddDate(0, -2, 0),
		},
		{
			ID: "#0424-1245", OrderNo: "24-04-1245",
			Customer: "BEDAŞ", CellType: "LB", Quantity: 8,
			Status: StatusInProgress, Progress: 65,
			DeliveryDate: now.AddDate(0, 1, 10),
			CreatedAt:    now.AddDate(0, -2, -5),
		},
		{
			ID: "#0424-1239", OrderNo: "24-04-1239",
			Customer: "TEİAŞ", CellType: "FL", Quantity: 4,
			Status: StatusInProgress, Progress: 80,
			DeliveryDate: now.AddDate(0, 0, 45),
			CreatedAt:    now.AddDate(0, -3, 0),
		},
		{
			ID: "#0524-0012", OrderNo: "24-05-0012",
			Customer: "ENERJİSA", CellType: "RMU", Quantity: 6,
			Status: StatusPlanned, Progress: 5,
			DeliveryDate: now.AddDate(0, 4, 0),
			CreatedAt:    now.AddDate(0, 0, -10),
		},
		{
			ID: "#0324-1118", OrderNo: "24-03-1118",
			Customer: "OSMANİYE ELEKTRİK", CellType: "CB", Quantity: 10,
			Status: StatusCompleted, Progress: 100,
			DeliveryDate: now.AddDate(0, -1, 0),
			CreatedAt:    now.AddDate(0, -5, 0),
		},
	}

	s.materials = []Material{
		{
			Code: "137998%", Name: "Siemens 7SR1003-1JA20-2DA0+ZY20 24VDC Röle",
			Stock: 2, Required: 8, Allocated: 0, MinStock: 5,
			Status: MaterialCritical,
		},
		{
			Code: "144866%", Name: "KAP-80/190-95 Akım Trafosu",
			Stock: 3, Required: 5, Allocated: 2, MinStock: 5,
			Status: MaterialCritical,
		},
		{
			Code: "120170%", Name: "Siemens 7SJ85 Koruma Rölesi",
			Stock: 1, Required: 6, Allocated: 1, MinStock: 3,
			Status: MaterialOrdered,
		},
		{
			Code: "109367%", Name: "VG4 Kesici 36kV",
			Stock: 5, Required: 12, Allocated: 4, MinStock: 4,
			Status: MaterialOrdered,
		},
		{
			Code: "133278%", Name: "Orta Gerilim Bara Bakır 40x10",
			Stock: 120, Required: 60, Allocated: 30, MinStock: 40,
			Status: MaterialInStock,
		},
	}

	s.documents = []TechnicalDocument{
		{
			ID: "1", Name: "RM 36 CB Teknik Çizim", Category: "Çizimler",
			Content: "RM 36 CB hücresine ait teknik çizim detayları...",
			Date:    now.AddDate(0, -1, 0),
		},
		{
			ID: "2", Name: "RM 36 LB Montaj Talimatı", Category: "Talimatlar",
			Content: "RM 36 LB hücresi montaj talimatları...",
			Date:    now.AddDate(0, -1, -5),
		},
		{
			ID: "3", Name: "Akım Trafosu Seçim Kılavuzu", Category: "Kılavuzlar",
			Content: "Akım trafolarının seçimine ilişkin teknik bilgiler...",
			Date:    now.AddDate(0, -2, 0),
		},
		{
			ID: "4", Name: "RM 36 CB FAT Test Prosedürü", Category: "Test Raporları",
			Content: "CB hücreleri için fabrika kabul testi adımları...",
			Date:    now.AddDate(0, -3, 0),
		},
	}

	s.equipment = []Equipment{
		{
			ID: "EQP-101", Name: "CNC Abkant Pres", Type: "CNC",
			Location:    "Mekanik Atölye",
			InstallDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "EQP-102", Name: "Toz Boya Fırını", Type: "Fırın",
			Location:    "Boyahane",
			InstallDate: time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "EQP-103", Name: "Sekonder Test Masası", Type: "Test",
			Location:    "Test Sahası",
			InstallDate: now.AddDate(0, -2, 0),
		},
	}

	s.efficiency = 78
	return s
}
