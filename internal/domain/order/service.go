package order

import (
	"context"
	"fmt"

	"tabkeeper/internal/core/apperror"
	"tabkeeper/internal/core/billing"
	"tabkeeper/internal/core/tx"
	"tabkeeper/pkg/logger"
)

// AuditRecorder records committed orders for the audit trail.
// Implementations live in the infrastructure layer.
type AuditRecorder interface {
	RecordOrderCreated(ctx context.Context, o *Order) error
}

// Service provides business operations for orders.
//
// Create is the correctness-critical path: bill number allocation and order
// persistence share one transaction, so a failed order never burns a
// sequence number and no partial state is ever visible.
type Service struct {
	repo      Repository
	allocator billing.Allocator
	txManager tx.Manager
	audit     AuditRecorder // optional
}

// NewService creates a new order service.
func NewService(repo Repository, allocator billing.Allocator, txManager tx.Manager, audit AuditRecorder) *Service {
	return &Service{
		repo:      repo,
		allocator: allocator,
		txManager: txManager,
		audit:     audit,
	}
}

// Create numbers and persists a draft order atomically.
//
// Inside one transaction: allocate today's counter, format the bill number,
// insert the header, insert the lines in submission order. Any failure rolls
// the whole thing back, counter increment included. A hard process crash
// between allocation and commit leaves a permanent gap in the sequence;
// that tradeoff is accepted.
func (s *Service) Create(ctx context.Context, draft *Draft) (*Receipt, error) {
	// Validation happens before any transaction or connection is acquired.
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		CustomerName: draft.CustomerName,
		Phone:        draft.Phone,
		Session:      draft.Session,
		Total:        *draft.Total,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		dateKey := billing.Today()

		counter, err := s.allocator.Allocate(ctx, dateKey)
		if err != nil {
			return fmt.Errorf("allocate counter: %w", err)
		}
		o.BillNo = billing.FormatBillNo(dateKey, counter)

		if err := s.repo.Insert(ctx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		items := make([]Item, 0, len(draft.Items))
		for _, di := range draft.Items {
			items = append(items, Item{
				OrderID:      o.ID,
				ItemID:       di.ItemID,
				NameSnapshot: di.Name,
				Qty:          di.Qty,
				UnitPrice:    di.UnitPrice,
				LineTotal:    di.LineTotal,
			})
		}
		o.Items = items

		if err := s.repo.InsertItems(ctx, o.ID, items); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}

		return nil
	})
	if err != nil {
		// The cause stays server-side; the caller sees one generic failure.
		return nil, apperror.NewDatabase("failed to create order", err)
	}

	// Best-effort audit trail, outside the transaction.
	if s.audit != nil {
		if err := s.audit.RecordOrderCreated(ctx, o); err != nil {
			logger.Warn(ctx, "order audit record failed", "bill_no", o.BillNo, "error", err)
		}
	}

	logger.Info(ctx, "order created",
		"bill_no", o.BillNo,
		"order_id", o.ID,
		"items", len(o.Items))

	return &Receipt{BillNo: o.BillNo, OrderID: o.ID}, nil
}

// GetByBillNo retrieves a committed order with its lines. Header and lines
// are read inside one read-only transaction for a consistent snapshot.
func (s *Service) GetByBillNo(ctx context.Context, billNo string) (*Order, error) {
	var o *Order
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.repo.GetByBillNo(ctx, billNo)
		if err != nil {
			return err
		}

		items, err := s.repo.GetItems(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		o.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return o, nil
}
