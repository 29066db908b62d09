package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabkeeper/internal/core/apperror"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func validDraft() *Draft {
	return &Draft{
		Total: decPtr(20),
		Items: []DraftItem{
			{Name: "Tea", Qty: 2, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(20)},
		},
	}
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr bool
	}{
		{"valid", func(d *Draft) {}, false},
		{"zero total is allowed", func(d *Draft) { d.Total = decPtr(0) }, false},
		{"no items", func(d *Draft) { d.Items = nil }, true},
		{"empty items", func(d *Draft) { d.Items = []DraftItem{} }, true},
		{"missing total", func(d *Draft) { d.Total = nil }, true},
		{"negative total", func(d *Draft) { d.Total = decPtr(-1) }, true},
		{"blank item name", func(d *Draft) { d.Items[0].Name = "  " }, true},
		{"zero qty", func(d *Draft) { d.Items[0].Qty = 0 }, true},
		{"negative unit price", func(d *Draft) { d.Items[0].UnitPrice = decimal.NewFromInt(-5) }, true},
		{"negative line total", func(d *Draft) { d.Items[0].LineTotal = decimal.NewFromInt(-5) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)

			err := d.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok, "validation failures must be AppErrors")
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, 400, appErr.HTTPStatus)
		})
	}
}
