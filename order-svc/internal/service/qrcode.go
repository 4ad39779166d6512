package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"restaurant-orders/order-svc/internal/domain"
)

const defaultQRSize = 256

type QRGenerator interface {
	Generate(table domain.RestaurantTable) ([]byte, error)
}

// DefaultQRGenerator encodes the ordering link printed on a table.
type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

func (g DefaultQRGenerator) Link(table domain.RestaurantTable) string {
	ref := table.QRCodeSlug
	if ref == "" {
		ref = strconv.FormatInt(table.ID, 10)
	}
	return fmt.Sprintf("%s/order?table=%s", strings.TrimRight(g.BaseURL, "/"), url.QueryEscape(ref))
}

func (g DefaultQRGenerator) Generate(table domain.RestaurantTable) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = defaultQRSize
	}
	return qrcode.Encode(g.Link(table), qrcode.Medium, size)
}
