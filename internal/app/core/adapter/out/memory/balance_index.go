package memory

import "github.com/shopspring/decimal"

// BalanceIndex 帳戶 ID 對應目前餘額，未出現過的帳戶視為 0。
// 本身不加鎖，Adjust 只能在追加交易的同一個臨界區內呼叫。
type BalanceIndex struct {
	balances map[string]decimal.Decimal
}

func NewBalanceIndex() *BalanceIndex {
	return &BalanceIndex{
		balances: make(map[string]decimal.Decimal),
	}
}

// Get 取得餘額，不存在時回傳 0
func (b *BalanceIndex) Get(accountID string) decimal.Decimal {
	balance, ok := b.balances[accountID]
	if !ok {
		return decimal.Zero
	}
	return balance
}

// Adjust 將 delta 加到餘額上 (存款為正、提款為負)，並回傳新餘額
func (b *BalanceIndex) Adjust(accountID string, delta decimal.Decimal) decimal.Decimal {
	balance := b.Get(accountID).Add(delta)
	b.balances[accountID] = balance
	return balance
}
