package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
)

type normalizedOrderInput struct {
	CustomerName string  `json:"customerName"`
	Address      string  `json:"address"`
	OrderItemIDs []int64 `json:"orderItemIds"`
}

// FingerprintOrder builds a deterministic hash of the order payload, excluding the idempotency key.
func FingerprintOrder(input types.OrderInput) (string, error) {
	payload, err := json.Marshal(normalizedOrderInput{
		CustomerName: input.CustomerName,
		Address:      input.Address,
		OrderItemIDs: input.OrderItemIDs,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
