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

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrOrderNotFound is returned when an order id or order number does not
// match any stored order. Callers are expected to surface this to the
// user; it is a usage error, not an infrastructure fault.
var ErrOrderNotFound = fmt.Errorf("order not found")

// ErrEquipmentNotFound is returned for unknown equipment ids.
var ErrEquipmentNotFound = fmt.Errorf("equipment not found")

// ErrMaterialNotFound is returned for unknown material codes.
var ErrMaterialNotFound = fmt.Errorf("material not found")

// Store holds the plant's business data in memory. All accessors return
// copies, so callers can never mutate the store through a snapshot.
//
// The store is safe for concurrent use; a single RWMutex guards all
// collections.
type Store struct {
	mu         sync.RWMutex
	orders     []Order
	materials  []Material
	documents  []TechnicalDocument
	equipment  []Equipment
	efficiency int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{efficiency: 0}
}

// Orders returns all orders, newest first.
func (s *Store) Orders(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// OrderByNo finds an order by display id or ERP order number. The leading
// '#' on display ids is optional.
func (s *Store) OrderByNo(ctx context.Context, id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	norm := strings.TrimPrefix(strings.TrimSpace(id), "#")
	for _, o := range s.orders {
		if strings.TrimPrefix(o.ID, "#") == norm || o.OrderNo == norm {
			return o, nil
		}
	}
	return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// CreateOrder stores a new order, assigning an ERP order number if the
// caller did not provide one.
func (s *Store) CreateOrder(ctx context.Context, o Order) (Order, error) {
	if o.ID == "" {
		return Order{}, fmt.Errorf("order id is required")
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	if o.OrderNo == "" {
		o.OrderNo = GenerateOrderNumber(o.ID, o.CreatedAt)
	}
	if o.Status == "" {
		o.Status = StatusPlanned
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orders {
		if existing.ID == o.ID {
			return Order{}, fmt.Errorf("order %s already exists", o.ID)
		}
	}
	s.orders = append(s.orders, o)
	slog.Info("Order created", "order", o.ID, "customer", o.Customer, "cell_type", o.CellType)
	return o, nil
}

// UpdateProductionStatus sets the progress and status of an order.
func (s *Store) UpdateProductionStatus(ctx context.Context, id string, progress int, status OrderStatus) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("progress must be 0-100, got %d", progress)
	}
	norm := strings.TrimPrefix(strings.TrimSpace(id), "#")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if strings.TrimPrefix(s.orders[i].ID, "#") == norm || s.orders[i].OrderNo == norm {
			s.orders[i].Progress = progress
			if status != "" {
				s.orders[i].Status = status
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// Materials returns all stock items.
func (s *Store) Materials(ctx context.Context) ([]Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Material, len(s.materials))
	copy(out, s.materials)
	return out, nil
}

// MaterialAvailability answers a single-material stock check.
func (s *Store) MaterialAvailability(ctx context.Context, code string) (MaterialAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.materials {
		if m.Code == code {
			return MaterialAvailability{
				Code:      m.Code,
				Available: m.Available(),
				Required:  m.Required,
				Status:    m.Status,
			}, nil
		}
	}
	return MaterialAvailability{}, fmt.Errorf("%w: %s", ErrMaterialNotFound, code)
}

// UpsertMaterial inserts or replaces a stock item by code.
func (s *Store) UpsertMaterial(ctx context.Context, m Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.materials {
		if s.materials[i].Code == m.Code {
			s.materials[i] = m
			return
		}
	}
	s.materials = append(s.materials, m)
}

// TechnicalDocuments returns the technical archive.
func (s *Store) TechnicalDocuments(ctx context.Context) ([]TechnicalDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TechnicalDocument, len(s.documents))
	copy(out, s.documents)
	return out, nil
}

// DocumentsByCategory groups the archive by category name.
func (s *Store) DocumentsByCategory(ctx context.Context) (map[string][]TechnicalDocument, error) {
	docs, err := s.TechnicalDocuments(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]TechnicalDocument)
	for _, d := range docs {
		grouped[d.Category] = append(grouped[d.Category], d)
	}
	return grouped, nil
}

// EquipmentByID finds a machine by id.
func (s *Store) EquipmentByID(ctx context.Context, id string) (Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.equipment {
		if e.ID == id {
			return e, nil
		}
	}
	return Equipment{}, fmt.Errorf("%w: %s", ErrEquipmentNotFound, id)
}

// AddEquipment registers a machine.
func (s *Store) AddEquipment(ctx context.Context, e Equipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment = append(s.equipment, e)
}

// Stats derives the aggregate dashboard block. Delayed and critical counts
// are computed from the canonical statuses, never from raw strings.
func (s *Store) Stats(ctx context.Context) (ProductionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := ProductionStats{
		TotalOrders:          len(s.orders),
		ProductionEfficiency: s.efficiency,
	}
	for _, o := range s.orders {
		if o.Status == StatusDelayed {
			stats.DelayedOrders++
		}
	}
	for _, m := range s.materials {
		if m.Status == MaterialCritical {
			stats.CriticalMaterials++
		}
	}
	return stats, nil
}

// SetEfficiency records the current production efficiency percentage,
// normally fed by the production tracking pipeline.
func (s *Store) SetEfficiency(pct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.efficiency = pct
}

// GenerateOrderNumber builds an ERP order number from the display id and
// a timestamp: two digit year, two digit month, first four id characters
// upper-cased, e.g. "24-04-1251".
func GenerateOrderNumber(orderID string, now time.Time) string {
	id := strings.TrimPrefix(orderID, "#")
	if len(id) > 4 {
		id = id[:4]
	}
	return fmt.Sprintf("%02d-%02d-%s", now.Year()%100, int(now.Month()), strings.ToUpper(id))
}
