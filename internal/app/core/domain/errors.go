package domain

import "errors"

var (
	// ErrInvalidAmount 金額必須大於 0
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransactionNotFound 找不到交易
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrLedgerClosed 帳本已關閉，不再接受請求
	ErrLedgerClosed = errors.New("ledger closed")
)
