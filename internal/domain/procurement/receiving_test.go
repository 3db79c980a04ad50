package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warehouse/backend/internal/domain/shared"
)

func TestReceivingItem_Validate_Serialized(t *testing.T) {
	detailID := uuid.New()

	tests := []struct {
		name     string
		item     ReceivingItem
		wantCode string
	}{
		{
			name: "valid serialized receipt",
			item: ReceivingItem{DetailID: detailID, Serialized: &SerializedReceipt{SerialNumber: "SN-001"}},
		},
		{
			name:     "missing payload",
			item:     ReceivingItem{DetailID: detailID},
			wantCode: shared.CodeMissingSerial,
		},
		{
			name:     "empty serial",
			item:     ReceivingItem{DetailID: detailID, Serialized: &SerializedReceipt{}},
			wantCode: shared.CodeMissingSerial,
		},
		{
			name:     "bulk payload on serialized line",
			item:     ReceivingItem{DetailID: detailID, Bulk: &BulkReceipt{Quantity: 5}},
			wantCode: shared.CodeMissingSerial,
		},
		{
			name:     "missing line reference",
			item:     ReceivingItem{Serialized: &SerializedReceipt{SerialNumber: "SN-001"}},
			wantCode: shared.CodeInvalidInput,
		},
		{
			name: "negative import price",
			item: ReceivingItem{DetailID: detailID, Serialized: &SerializedReceipt{
				SerialNumber: "SN-001",
				ImportPrice:  decimalPtr(decimal.NewFromInt(-1)),
			}},
			wantCode: shared.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate(true)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, shared.CodeOf(err))
			}
		})
	}
}

func TestReceivingItem_Validate_Bulk(t *testing.T) {
	detailID := uuid.New()

	tests := []struct {
		name     string
		item     ReceivingItem
		wantCode string
	}{
		{
			name: "valid bulk receipt",
			item: ReceivingItem{DetailID: detailID, Bulk: &BulkReceipt{Quantity: 25}},
		},
		{
			name:     "serial on bulk line",
			item:     ReceivingItem{DetailID: detailID, Serialized: &SerializedReceipt{SerialNumber: "SN-001"}},
			wantCode: shared.CodeUnexpectedSerial,
		},
		{
			name:     "missing payload",
			item:     ReceivingItem{DetailID: detailID},
			wantCode: shared.CodeInvalidInput,
		},
		{
			name:     "zero quantity",
			item:     ReceivingItem{DetailID: detailID, Bulk: &BulkReceipt{Quantity: 0}},
			wantCode: shared.CodeInvalidInput,
		},
		{
			name:     "negative quantity",
			item:     ReceivingItem{DetailID: detailID, Bulk: &BulkReceipt{Quantity: -3}},
			wantCode: shared.CodeInvalidInput,
		},
		{
			name: "both payloads",
			item: ReceivingItem{DetailID: detailID,
				Serialized: &SerializedReceipt{SerialNumber: "SN-001"},
				Bulk:       &BulkReceipt{Quantity: 1}},
			wantCode: shared.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate(false)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, shared.CodeOf(err))
			}
		})
	}
}

func TestReceivingItem_Quantity(t *testing.T) {
	assert.Equal(t, 1, ReceivingItem{Serialized: &SerializedReceipt{SerialNumber: "SN"}}.Quantity())
	assert.Equal(t, 25, ReceivingItem{Bulk: &BulkReceipt{Quantity: 25}}.Quantity())
	assert.Equal(t, 0, ReceivingItem{}.Quantity())
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
