package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"tabkeeper/internal/core/appctx"
	"tabkeeper/internal/domain/order"
)

// CompressionAlgo specifies the compression algorithm used for a payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// OrderAuditEntry is a persisted snapshot of an order at creation time.
// Large payloads are stored zstd-compressed.
type OrderAuditEntry struct {
	OrderID           int64           `db:"order_id"`
	BillNo            string          `db:"bill_no"`
	StaffEmail        string          `db:"staff_email"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// OrderAuditLog records order creation events. It implements
// order.AuditRecorder.
type OrderAuditLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ order.AuditRecorder = (*OrderAuditLog)(nil)

// NewOrderAuditLog creates an audit log writer.
func NewOrderAuditLog(txManager *TxManager) (*OrderAuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &OrderAuditLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// RecordOrderCreated writes an audit entry for a freshly created order.
func (l *OrderAuditLog) RecordOrderCreated(ctx context.Context, o *order.Order) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order payload: %w", err)
	}

	entry := OrderAuditEntry{
		OrderID:    o.ID,
		BillNo:     o.BillNo,
		StaffEmail: appctx.GetStaffEmail(ctx),
		CreatedAt:  time.Now().UTC(),
	}
	l.encodePayload(&entry, payload)

	sql := `
		INSERT INTO order_audit (
			order_id, bill_no, staff_email,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	querier := l.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql,
		entry.OrderID, entry.BillNo, entry.StaffEmail,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// encodePayload stores the payload raw or zstd-compressed depending on size.
func (l *OrderAuditLog) encodePayload(entry *OrderAuditEntry, payload json.RawMessage) {
	if len(payload) > l.compressThreshold {
		entry.PayloadCompressed = l.encoder.EncodeAll(payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
		return
	}
	entry.Payload = payload
	entry.CompressionAlgo = CompressionNone
}

// DecodePayload returns the raw order JSON for an entry, decompressing
// when needed.
func (l *OrderAuditLog) DecodePayload(entry *OrderAuditEntry) (json.RawMessage, error) {
	switch entry.CompressionAlgo {
	case CompressionZstd:
		decoded, err := l.decoder.DecodeAll(entry.PayloadCompressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress audit payload: %w", err)
		}
		return decoded, nil
	default:
		return entry.Payload, nil
	}
}

// Close releases the compression resources.
func (l *OrderAuditLog) Close() {
	_ = l.encoder.Close()
	l.decoder.Close()
}
