package usecase

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cattyman919/contact/app/domain"
	"github.com/cattyman919/contact/app/port"
	apperrors "github.com/cattyman919/contact/app/utils/errors"
	"github.com/cattyman919/contact/app/utils/metrics"
)

const tracerName = "github.com/cattyman919/contact/app/usecase"

// CursorPaginator pages through contacts ordered by (created_at, id) in
// either direction. It is stateless and issues one range read per call.
type CursorPaginator struct {
	gateway port.ContactRangeGateway
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewCursorPaginator creates a new CursorPaginator
func NewCursorPaginator(gateway port.ContactRangeGateway, logger *slog.Logger) *CursorPaginator {
	return &CursorPaginator{
		gateway: gateway,
		logger:  logger.With("component", "cursor_paginator"),
		tracer:  otel.Tracer(tracerName),
	}
}

// Paginate returns one page of contacts in ascending display order.
//
// A prev-cursor scans backwards from its position; a next-cursor (or none)
// scans forwards. Store errors are returned unchanged.
func (p *CursorPaginator) Paginate(ctx context.Context, query domain.ContactPageQuery) (*domain.ContactPage, error) {
	start := time.Now()
	direction := domain.ScanAscending
	if query.HasPrev() {
		direction = domain.ScanDescending
	}

	ctx, span := p.tracer.Start(ctx, "CursorPaginator.Paginate", trace.WithAttributes(
		attribute.String("pagination.direction", direction.String()),
		attribute.Int("pagination.limit", query.EffectiveLimit()),
	))
	defer span.End()

	page, err := p.paginate(ctx, query, direction)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordPaginate(direction.String(), metrics.StatusError, 0, time.Since(start).Seconds())
		p.logger.WarnContext(ctx, "paginate failed", "direction", direction.String(), "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("pagination.page_size", len(page.Data)))
	metrics.RecordPaginate(direction.String(), metrics.StatusSuccess, len(page.Data), time.Since(start).Seconds())
	p.logger.DebugContext(ctx, "page served",
		"direction", direction.String(),
		"page_size", len(page.Data),
		"has_next", page.NextCursor != nil,
		"has_prev", page.PrevCursor != nil)

	return page, nil
}

func (p *CursorPaginator) paginate(ctx context.Context, query domain.ContactPageQuery, direction domain.ScanDirection) (*domain.ContactPage, error) {
	if query.HasNext() && query.HasPrev() {
		return nil, apperrors.NewInvalidArgument(
			"Both nextCursor and prevCursor cannot be provided simultaneously.",
			domain.ErrConflictingCursors,
		)
	}

	limit := query.EffectiveLimit()
	contactRange := domain.ContactRange{Direction: direction, Limit: limit + 1}

	token := query.NextCursor
	if direction == domain.ScanDescending {
		token = query.PrevCursor
	}
	if token != "" {
		bound, err := domain.DecodeCursor(token)
		if err != nil {
			return nil, apperrors.NewInvalidArgument("Invalid cursor.", err)
		}
		contactRange.After = &bound
	}

	rows, err := p.gateway.FetchRange(ctx, contactRange)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	if direction == domain.ScanDescending {
		slices.Reverse(rows)
	}

	page := &domain.ContactPage{Data: rows}
	if len(rows) == 0 {
		page.Data = []*domain.Contact{}
		return page, nil
	}

	first, last := rows[0], rows[len(rows)-1]
	if direction == domain.ScanDescending {
		page.NextCursor = encodeCursor(last)
		if hasMore {
			page.PrevCursor = encodeCursor(first)
		}
	} else {
		if hasMore {
			page.NextCursor = encodeCursor(last)
		}
		if query.HasNext() {
			page.PrevCursor = encodeCursor(first)
		}
	}

	return page, nil
}

func encodeCursor(c *domain.Contact) *string {
	token := domain.CursorFor(c).Encode()
	return &token
}
