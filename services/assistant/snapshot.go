// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assistant implements the factory question-answering service: it
// assembles a point-in-time snapshot of the business data, routes each
// query to a live chat-completion provider or the deterministic demo
// responder, and derives rule-based analytics (production insights, order
// risk, maintenance prediction) from the snapshot.
//
// The snapshot is value data copied out of the ERP stores. It is rebuilt
// fresh for every query, never cached and never written back.
package assistant

import (
	"context"
	"log/slog"

	"github.com/mettakip/metassist/services/erp"
	"go.opentelemetry.io/otel"
)

var snapshotTracer = otel.Tracer("metassist.assistant.snapshot")

// DataSource is the slice of the ERP layer the assistant reads. The
// concrete *erp.Store satisfies it.
type DataSource interface {
	Orders(ctx context.Context) ([]erp.Order, error)
	Materials(ctx context.Context) ([]erp.Material, error)
	TechnicalDocuments(ctx context.Context) ([]erp.TechnicalDocument, error)
	Stats(ctx context.Context) (erp.ProductionStats, error)
	OrderByNo(ctx context.Context, id string) (erp.Order, error)
	EquipmentByID(ctx context.Context, id string) (erp.Equipment, error)
}

// Snapshot is the read-only aggregate handed to the responder, the live
// prompt builder and the analytics generators for one query.
type Snapshot struct {
	Orders    []erp.Order             `json:"orders"`
	Materials []erp.Material          `json:"materials"`
	Technical []erp.TechnicalDocument `json:"technical"`
	Stats     erp.ProductionStats     `json:"stats"`
}

// BuildSnapshot pulls the current business data into one Snapshot. It
// never fails the caller: if any source errors, the failure is logged and
// a zero-valued snapshot is returned instead.
func BuildSnapshot(ctx context.Context, src DataSource) Snapshot {
	ctx, span := snapshotTracer.Start(ctx, "BuildSnapshot")
	defer span.End()

	orders, err := src.Orders(ctx)
	if err != nil {
		slog.Error("Snapshot source unavailable, returning empty snapshot", "source", "orders", "error", err)
		return Snapshot{}
	}
	materials, err := src.Materials(ctx)
	if err != nil {
		slog.Error("Snapshot source unavailable, returning empty snapshot", "source", "materials", "error", err)
		return Snapshot{}
	}
	technical, err := src.TechnicalDocuments(ctx)
	if err != nil {
		slog.Error("Snapshot source unavailable, returning empty snapshot", "source", "technical", "error", err)
		return Snapshot{}
	}
	stats, err := src.Stats(ctx)
	if err != nil {
		slog.Error("Snapshot source unavailable, returning empty snapshot", "source", "stats", "error", err)
		return Snapshot{}
	}

	return Snapshot{
		Orders:    orders,
		Materials: materials,
		Technical: technical,
		Stats:     stats,
	}
}
