package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// AccountIDLength 帳戶 ID 固定長度
	AccountIDLength = 10
	// MaxDescriptionLength 說明最長字數
	MaxDescriptionLength = 100
	maxBodyBytes         = 1 << 16
)

// transactionRequest 存款/提款請求，amount 可為數字或字串
type transactionRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
}

func validateAccountID(id string) error {
	if utf8.RuneCountInString(id) != AccountIDLength {
		return fmt.Errorf("account id must be exactly %d characters", AccountIDLength)
	}
	return nil
}

// decodeTransactionRequest 解析並驗證請求內容
func decodeTransactionRequest(r io.Reader) (decimal.Decimal, string, error) {
	var req transactionRequest
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("malformed request body: %w", err)
	}
	if req.Amount == nil {
		return decimal.Decimal{}, "", errors.New("amount is required")
	}
	if !req.Amount.IsPositive() {
		return decimal.Decimal{}, "", errors.New("amount must be positive")
	}
	if req.Description == nil {
		return decimal.Decimal{}, "", errors.New("description is required")
	}
	if n := utf8.RuneCountInString(*req.Description); n < 1 || n > MaxDescriptionLength {
		return decimal.Decimal{}, "", fmt.Errorf("description must be between 1 and %d characters", MaxDescriptionLength)
	}
	return *req.Amount, *req.Description, nil
}
