package usecase

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// 数値でも文字列でも受け取る。それ以外（object等）は空
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
	}
	return nil
}

func (f flexString) String() string { return strings.TrimSpace(string(f)) }

type gatewayTransaction struct {
	ID            flexString            `json:"id"`
	TransactionID flexString            `json:"transaction_id"`
	Status        flexString            `json:"status"`
	Reference     flexString            `json:"reference"`
	PaymentLinkID flexString            `json:"payment_link_id"`
	PaymentLink   flexString            `json:"payment_link"`
	AmountInCents flexString            `json:"amount_in_cents"`
	Currency      flexString            `json:"currency"`
	Metadata      map[string]flexString `json:"metadata"`
}

type gatewayObject struct {
	gatewayTransaction
	Payment *gatewayTransaction `json:"payment"`
}

// data.transaction と data.object(.payment) の両方の形を受ける
type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Transaction *gatewayTransaction `json:"transaction"`
		Object      *gatewayObject      `json:"object"`
	} `json:"data"`
}

// 取り出した取引情報
type webhookTransaction struct {
	Ref           string
	Status        string
	Reference     string
	PaymentLinkID string
	Amount        *float64
	Currency      string
	Metadata      map[string]string
}

var orderMetadataKeys = []string{"order_id", "orderId", "pedidoId", "pedido_id"}

var digitRun = regexp.MustCompile(`\d+`)

func parseWebhookPayload(raw []byte) (webhookTransaction, error) {
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return webhookTransaction{}, err
	}

	// 先に見つかった値を使う（transaction > object.payment > object）
	var cands []*gatewayTransaction
	if p.Data.Transaction != nil {
		cands = append(cands, p.Data.Transaction)
	}
	if p.Data.Object != nil {
		if p.Data.Object.Payment != nil {
			cands = append(cands, p.Data.Object.Payment)
		}
		cands = append(cands, &p.Data.Object.gatewayTransaction)
	}
	first := func(get func(t *gatewayTransaction) flexString) string {
		for _, c := range cands {
			if v := get(c).String(); v != "" {
				return v
			}
		}
		return ""
	}

	tx := webhookTransaction{
		Ref: first(func(t *gatewayTransaction) flexString {
			if t.ID != "" {
				return t.ID
			}
			return t.TransactionID
		}),
		Status:    strings.ToLower(first(func(t *gatewayTransaction) flexString { return t.Status })),
		Reference: first(func(t *gatewayTransaction) flexString { return t.Reference }),
		PaymentLinkID: first(func(t *gatewayTransaction) flexString {
			if t.PaymentLinkID != "" {
				return t.PaymentLinkID
			}
			return t.PaymentLink
		}),
		Currency: strings.ToUpper(first(func(t *gatewayTransaction) flexString { return t.Currency })),
		Metadata: map[string]string{},
	}
	if cents := first(func(t *gatewayTransaction) flexString { return t.AmountInCents }); cents != "" {
		if v, err := strconv.ParseFloat(cents, 64); err == nil {
			amount := roundMoney(v / 100)
			tx.Amount = &amount
		}
	}
	for i := len(cands) - 1; i >= 0; i-- {
		for k, v := range cands[i].Metadata {
			if s := v.String(); s != "" {
				tx.Metadata[k] = s
			}
		}
	}
	return tx, nil
}

// metadataの注文ID
func (t webhookTransaction) metadataOrderID() (int64, bool) {
	for _, k := range orderMetadataKeys {
		if id, ok := parsePositiveID(t.Metadata[k]); ok {
			return id, true
		}
	}
	return 0, false
}

// referenceの最初の数字列（"order_42" -> 42）
func (t webhookTransaction) referenceOrderID() (int64, bool) {
	m := digitRun.FindString(t.Reference)
	if m == "" {
		return 0, false
	}
	return parsePositiveID(m)
}

func parsePositiveID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
