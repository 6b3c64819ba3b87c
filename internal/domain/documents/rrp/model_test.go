package rrp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/core/types"
)

func costedLine(price, qty, customs, vat string) *Line {
	line := NewLine(id.New())
	line.ItemPrice = types.MustMoney(price)
	line.Quantity, _ = types.NewQuantityFromString(qty)
	line.CustomsCharge = types.MustMoney(customs)
	line.VatPercent = types.MustMoney(vat)
	return line
}

func TestLineComputeTotal(t *testing.T) {
	// base     = 100 * 2 * 110 = 22000
	// dutiable = 22000 + 500   = 22500
	// vat      = 22500 * 15%   = 3375
	// total    = 25875
	line := costedLine("100", "2", "500", "15")
	total := line.ComputeTotal(types.MustMoney("110"))
	assert.True(t, total.Equal(types.MustMoney("25875")), "got %s", total)
}

func TestLineComputeTotal_NoCustomsNoVat(t *testing.T) {
	line := costedLine("19.99", "3", "0", "0")
	total := line.ComputeTotal(types.MustMoney("1"))
	assert.True(t, total.Equal(types.MustMoney("59.97")), "got %s", total)
}

func TestHeaderComputeTotals_LocalForexIsOne(t *testing.T) {
	h := NewHeader(SupplierLocal)
	// A stale forex rate on a local header must not leak into costing.
	h.ForexRate = types.MustMoney("85")
	h.Lines = []*Line{costedLine("10", "5", "0", "0")}

	h.ComputeTotals()
	assert.True(t, h.Lines[0].TotalAmount.Equal(types.MustMoney("50")),
		"got %s", h.Lines[0].TotalAmount)
}

func TestHeaderGrandTotal_IncludesFreight(t *testing.T) {
	h := NewHeader(SupplierForeign)
	h.Currency = "USD"
	h.ForexRate = types.MustMoney("110")
	h.FreightCharge = types.MustMoney("1200")
	h.Lines = []*Line{
		costedLine("100", "2", "500", "15"), // 25875
		costedLine("50", "1", "0", "0"),     // 5500
	}

	h.ComputeTotals()
	assert.True(t, h.GrandTotal().Equal(types.MustMoney("32575")),
		"got %s", h.GrandTotal())
}

func TestHeaderValidate(t *testing.T) {
	ctx := context.Background()

	h := NewHeader(SupplierForeign)
	h.SupplierName = "Collins Aerospace"
	h.RrpDate = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	h.Lines = []*Line{costedLine("10", "1", "0", "0")}

	// Foreign supplier without a currency.
	err := h.Validate(ctx)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "currency", appErr.Details["field"])

	h.Currency = "USD"
	require.NoError(t, h.Validate(ctx))

	// No lines.
	h.Lines = nil
	err = h.Validate(ctx)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "lines", appErr.Details["field"])
}

func TestHeaderValidate_ReportsLineIndex(t *testing.T) {
	ctx := context.Background()

	h := NewHeader(SupplierLocal)
	h.SupplierName = "Local Vendor"
	h.RrpDate = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	h.Lines = []*Line{
		costedLine("10", "1", "0", "0"),
		costedLine("10", "0", "0", "0"), // zero quantity
	}

	err := h.Validate(ctx)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 1, appErr.Details["line"])
}
