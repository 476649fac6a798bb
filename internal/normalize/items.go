package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/mmynk/splitshare/internal/models"
)

// UnnamedItem is the name given to items without any usable name field.
const UnnamedItem = "Unnamed item"

// Field aliases in lookup order. The first present, non-null key wins.
var (
	nameKeys  = []string{"product_name", "name", "title"}
	priceKeys = []string{"product_price", "unit_price", "price", "total", "amount"}
	imageKeys = []string{"product_image_url", "image"}
)

// Items extracts canonical items from a raw extraction payload.
//
// The payload shape depends on the extraction provider and its response
// wrapping, so items are looked up at data.result.items, data.items and
// items in turn. When none of those is an array the whole document is
// searched for the first array whose first element has a product_name.
// Invalid JSON or an unrecognised shape yields an empty slice.
func Items(payload []byte) []models.Item {
	raw := locateItems(payload)
	items := make([]models.Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, toItem(r))
	}
	return items
}

// roots returns the parsed document and the object item lookups start from:
// the "data" member when it is a non-empty object, the document otherwise.
func roots(payload []byte) (root, base gjson.Result, ok bool) {
	if !gjson.ValidBytes(payload) {
		return gjson.Result{}, gjson.Result{}, false
	}
	root = gjson.ParseBytes(payload)
	base = root
	if data := root.Get("data"); data.IsObject() && len(data.Map()) > 0 {
		base = data
	}
	return root, base, true
}

func locateItems(payload []byte) []gjson.Result {
	root, base, ok := roots(payload)
	if !ok {
		return nil
	}
	for _, candidate := range []gjson.Result{
		base.Get("result.items"),
		base.Get("items"),
		root.Get("items"),
	} {
		if candidate.IsArray() {
			return candidate.Array()
		}
	}
	if found, ok := findItemArray(root); ok {
		return found.Array()
	}
	return nil
}

// findItemArray walks the document depth-first in document order. JSON
// documents are finite trees, so the walk always terminates.
func findItemArray(r gjson.Result) (gjson.Result, bool) {
	if !r.IsObject() && !r.IsArray() {
		return gjson.Result{}, false
	}
	if r.IsArray() && truthy(r.Get("0").Get("product_name")) {
		return r, true
	}
	var (
		found gjson.Result
		ok    bool
	)
	r.ForEach(func(_, v gjson.Result) bool {
		found, ok = findItemArray(v)
		return !ok
	})
	return found, ok
}

func toItem(r gjson.Result) models.Item {
	it := models.Item{
		Name:     UnnamedItem,
		Quantity: 1,
		Raw:      json.RawMessage(r.Raw),
	}
	for _, k := range nameKeys {
		if v := r.Get(k); present(v) && v.String() != "" {
			it.Name = v.String()
			break
		}
	}
	if v, ok := first(r, priceKeys); ok {
		it.Price = max(NormalizePrice(v.Value()), 0)
	}
	if v := r.Get("quantity"); present(v) {
		it.Quantity = NormalizeQuantity(v.Value())
	}
	if v, ok := first(r, imageKeys); ok {
		it.ImageURL = v.String()
	}
	return it
}

func first(r gjson.Result, keys []string) (gjson.Result, bool) {
	for _, k := range keys {
		if v := r.Get(k); present(v) {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

// truthy follows the usual JSON truthiness: false, null, 0 and "" are falsy.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	default:
		return false
	}
}
