package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Product is the normalised catalog record. The wire format varies between
// catalog deployments; UnmarshalJSON accepts both the lower-case shape and
// the Id/Name/FinalPrice/Images shape.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}

var (
	idKeys       = []string{"id", "Id", "ID"}
	nameKeys     = []string{"name", "Name", "NameWithoutBrand"}
	priceKeys    = []string{"price", "FinalPrice", "ListPrice"}
	imageKeys    = []string{"image", "Image", "PrimaryMedium"}
	categoryKeys = []string{"category", "Category"}
)

func (p *Product) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	out := Product{
		ID:       firstString(fields, idKeys),
		Name:     firstString(fields, nameKeys),
		Image:    firstString(fields, imageKeys),
		Category: firstString(fields, categoryKeys),
	}

	if out.Image == "" {
		if raw, ok := fields["Images"]; ok {
			var images map[string]json.RawMessage
			if json.Unmarshal(raw, &images) == nil {
				out.Image = firstString(images, []string{"PrimaryMedium", "PrimaryLarge", "PrimarySmall"})
			}
		}
	}

	for _, k := range priceKeys {
		raw, ok := fields[k]
		if !ok || isNull(raw) {
			continue
		}
		if err := out.Price.UnmarshalJSON(raw); err != nil {
			return errors.Wrapf(err, "price field %s", k)
		}
		break
	}

	*p = out
	return nil
}

// Validate rejects records downstream code cannot work with.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("product id is empty")
	}
	if p.Price.IsNegative() {
		return errors.Errorf("product %s has negative price", p.ID)
	}
	return nil
}

func firstString(fields map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok || isNull(raw) {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}

		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
