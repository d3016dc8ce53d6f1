package usecase

import (
	"fmt"
	"math"

	"restaurant-api/internal/domain/model"
)

// クライアント合計との許容差
const totalTolerance = 0.01

type LineItemInput struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	Notes     string  `json:"notes,omitempty"`

	// 送られてきても使わない
	UnitPrice *float64 `json:"unit_price,omitempty"`
}

func roundMoney(x float64) float64 {
	return math.Round(x*100) / 100
}

// 明細の形だけ先に検査する（DBを見る前）
func validateLineItems(items []LineItemInput) error {
	if len(items) == 0 {
		return NewValidationError("items must contain at least one element")
	}
	for i, it := range items {
		if it.ProductID <= 0 {
			return NewValidationError(fmt.Sprintf("items[%d]: product_id is required", i))
		}
		if it.Quantity <= 0 || it.Quantity != math.Trunc(it.Quantity) || it.Quantity > math.MaxInt32 {
			return NewValidationError(fmt.Sprintf("items[%d]: quantity must be a positive integer", i))
		}
	}
	return nil
}

// 重複を除いた商品ID（入力順）
func uniqueProductIDs(items []LineItemInput) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

// priceLineItems はカタログの現在価格で明細と合計を確定する
func priceLineItems(items []LineItemInput, products []model.Product) ([]model.OrderItem, float64, error) {
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]model.OrderItem, 0, len(items))
	var sum float64
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, 0, NewValidationError(fmt.Sprintf("product not found: %d", it.ProductID))
		}
		if !p.Available {
			return nil, 0, NewValidationError(fmt.Sprintf("product not available: %d", it.ProductID))
		}

		qty := int64(it.Quantity)
		sub := roundMoney(p.Price * float64(qty))
		out = append(out, model.OrderItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			UnitPrice:    p.Price,
			Quantity:     qty,
			LineSubtotal: sub,
			Notes:        it.Notes,
		})
		sum += sub
	}
	return out, roundMoney(sum), nil
}

// クライアント合計は整合チェックだけに使う
func checkClientTotal(clientTotal *float64, computed float64) error {
	if clientTotal == nil {
		return nil
	}
	if math.IsNaN(*clientTotal) || math.Abs(*clientTotal-computed) > totalTolerance+1e-9 {
		return NewValidationError(fmt.Sprintf("invalid total: expected %.2f", computed))
	}
	return nil
}
