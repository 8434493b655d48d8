package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// errorBody 錯誤回應格式
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON 統一輸出成功回應
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr 統一輸出錯誤回應 {"error": "..."}
func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

// writeLedgerErr 把帳本錯誤轉成 HTTP 狀態碼
func writeLedgerErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTransactionNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrLedgerClosed):
		writeErr(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}
