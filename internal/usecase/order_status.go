package usecase

import (
	"strings"
	"unicode"

	"restaurant-api/internal/domain/model"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 正規化後のトークン -> ステータス。スペイン語の表記も受け付ける
var orderStatusSynonyms = map[string]model.OrderStatus{
	"pending":        model.OrderStatusPending,
	"pendiente":      model.OrderStatusPending,
	"preparing":      model.OrderStatusPreparing,
	"preparando":     model.OrderStatusPreparing,
	"preparacion":    model.OrderStatusPreparing,
	"en preparacion": model.OrderStatusPreparing,
	"enpreparacion":  model.OrderStatusPreparing,
	"in preparation": model.OrderStatusPreparing,
	"ready":          model.OrderStatusReady,
	"listo":          model.OrderStatusReady,
	"lista":          model.OrderStatusReady,
	"delivered":      model.OrderStatusDelivered,
	"entregado":      model.OrderStatusDelivered,
	"entregada":      model.OrderStatusDelivered,
	"cancelled":      model.OrderStatusCancelled,
	"canceled":       model.OrderStatusCancelled,
	"cancelado":      model.OrderStatusCancelled,
	"cancelada":      model.OrderStatusCancelled,
}

// 遷移表（終端は空）
var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusPreparing, model.OrderStatusCancelled},
	model.OrderStatusPreparing: {model.OrderStatusReady, model.OrderStatusCancelled},
	model.OrderStatusReady:     {model.OrderStatusDelivered},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

// normalizeStatusToken は小文字化・アクセント除去・空白の圧縮を行う
func normalizeStatusToken(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.ToLower(raw))
	if err != nil {
		s = strings.ToLower(raw)
	}
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// CanonicalOrderStatus は入力を正規のステータスにする。知らない値はfalse
func CanonicalOrderStatus(raw string) (model.OrderStatus, bool) {
	tok := normalizeStatusToken(raw)
	if tok == "" {
		return "", false
	}
	if s, ok := orderStatusSynonyms[tok]; ok {
		return s, true
	}
	s, ok := orderStatusSynonyms[strings.ReplaceAll(tok, " ", "")]
	return s, ok
}

// CanTransition はfrom->toが遷移表にあるか
func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
