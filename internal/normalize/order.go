package normalize

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mmynk/splitshare/internal/models"
)

// OrderMeta extracts the order date and tax amount from the order_info
// object of a raw extraction payload. order_info is resolved the same way
// as the item list. Missing data yields models.NoOrderDate and zero tax.
func OrderMeta(payload []byte) models.OrderMeta {
	meta := models.OrderMeta{OrderDate: models.NoOrderDate}

	info, ok := locateOrderInfo(payload)
	if !ok {
		return meta
	}
	if d := info.Get("order_date"); present(d) {
		if date := strings.TrimSpace(d.String()); date != "" {
			meta.OrderDate = date
		}
	}
	meta.TaxAmount = max(NormalizePrice(info.Get("tax_amount").Value()), 0)
	return meta
}

// Parse normalizes a payload into its items and order metadata.
func Parse(payload []byte) ([]models.Item, models.OrderMeta) {
	return Items(payload), OrderMeta(payload)
}

func locateOrderInfo(payload []byte) (gjson.Result, bool) {
	root, base, ok := roots(payload)
	if !ok {
		return gjson.Result{}, false
	}
	for _, candidate := range []gjson.Result{
		base.Get("result.order_info"),
		base.Get("order_info"),
		root.Get("order_info"),
	} {
		if candidate.IsObject() {
			return candidate, true
		}
	}
	return gjson.Result{}, false
}
