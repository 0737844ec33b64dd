// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package erp provides the in-memory business-data stores backing the
// factory assistant: customer orders, material stock, technical documents
// and plant equipment for a medium voltage switchgear plant.
//
// The historical data sources used inconsistent status vocabularies
// ("delayed" from the ERP bridge, "Gecikiyor" from the UI mock data).
// This package defines one canonical enum per status and an explicit
// mapping table from every observed spelling; callers never compare raw
// status strings.
package erp

import (
	"strings"
	"time"
)

// OrderStatus is the canonical order state. The string value is the
// Turkish display form used across the application.
type OrderStatus string

const (
	StatusPlanned    OrderStatus = "Planlandı"
	StatusInProgress OrderStatus = "Devam Ediyor"
	StatusDelayed    OrderStatus = "Gecikiyor"
	StatusCompleted  OrderStatus = "Tamamlandı"
	StatusUnknown    OrderStatus = "Bilinmiyor"
)

// orderStatusVocabulary maps every status spelling observed in the legacy
// data sources (English ERP codes, Turkish UI labels, snake_case imports)
// to its canonical value. Keys are compared lower-cased.
var orderStatusVocabulary = map[string]OrderStatus{
	"planlandı":    StatusPlanned,
	"planned":      StatusPlanned,
	"planning":     StatusPlanned,
	"devam ediyor": StatusInProgress,
	"in_progress":  StatusInProgress,
	"in progress":  StatusInProgress,
	"üretimde":     StatusInProgress,
	"active":       StatusInProgress,
	"gecikiyor":    StatusDelayed,
	"delayed":      StatusDelayed,
	"gecikti":      StatusDelayed,
	"late":         StatusDelayed,
	"tamamlandı":   StatusCompleted,
	"completed":    StatusCompleted,
	"done":         StatusCompleted,
}

// ParseOrderStatus canonicalizes a raw status string. Unrecognized values
// map to StatusUnknown rather than being passed through.
func ParseOrderStatus(raw string) OrderStatus {
	if s, ok := orderStatusVocabulary[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusUnknown
}

// MaterialStatus is the canonical stock state of a material.
type MaterialStatus string

const (
	MaterialCritical MaterialStatus = "Kritik"
	MaterialOrdered  MaterialStatus = "Sipariş Edildi"
	MaterialInStock  MaterialStatus = "Yeterli"
)

var materialStatusVocabulary = map[string]MaterialStatus{
	"kritik":         MaterialCritical,
	"critical":       MaterialCritical,
	"sipariş edildi": MaterialOrdered,
	"ordered":        MaterialOrdered,
	"on_order":       MaterialOrdered,
	"yeterli":        MaterialInStock,
	"available":      MaterialInStock,
	"in_stock":       MaterialInStock,
	"ok":             MaterialInStock,
}

// ParseMaterialStatus canonicalizes a raw material status string.
func ParseMaterialStatus(raw string) MaterialStatus {
	if s, ok := materialStatusVocabulary[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return MaterialInStock
}

// Order is a customer order for one cell series.
type Order struct {
	// ID is the display order id, e.g. "#0424-1251".
	ID string `json:"id"`

	// OrderNo is the ERP order number, e.g. "24-04-A125".
	OrderNo string `json:"orderNo"`

	Customer string      `json:"customer"`
	CellType string      `json:"cellType"` // CB, LB, FL, RMU
	Quantity int         `json:"quantity"`
	Status   OrderStatus `json:"status"`

	// Progress is the production completion percentage, 0-100.
	Progress int `json:"progress"`

	DeliveryDate time.Time `json:"deliveryDate"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Material is one stock item tracked by the plant.
type Material struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Stock     int            `json:"stock"`
	Required  int            `json:"required"`
	Allocated int            `json:"allocated"`
	MinStock  int            `json:"minStock"`
	Status    MaterialStatus `json:"status"`
}

// Available returns the unallocated stock quantity.
func (m Material) Available() int {
	if n := m.Stock - m.Allocated; n > 0 {
		return n
	}
	return 0
}

// TechnicalDocument is a drawing, instruction or guide kept in the
// technical archive.
type TechnicalDocument struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"` // Çizimler, Talimatlar, Kılavuzlar...
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
}

// Equipment is a production machine subject to maintenance prediction.
type Equipment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	InstallDate time.Time `json:"installDate"`
}

// ProductionStats is the aggregate dashboard block derived from the stores.
type ProductionStats struct {
	TotalOrders          int `json:"totalOrders"`
	DelayedOrders        int `json:"delayedOrders"`
	CriticalMaterials    int `json:"criticalMaterials"`
	ProductionEfficiency int `json:"productionEfficiency"` // percent
}

// MaterialAvailability is the answer to a single-material stock check.
type MaterialAvailability struct {
	Code      string         `json:"code"`
	Available int            `json:"available"`
	Required  int            `json:"required"`
	Status    MaterialStatus `json:"status"`
}
