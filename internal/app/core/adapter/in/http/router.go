// Package http 提供帳本的 REST 介面 (/api/v1/accounts)，負責請求驗證與錯誤碼轉換；
// 帳本本身不知道 HTTP 的存在。
package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router 建立並回傳整個 HTTP 處理鏈
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	accounts := r.PathPrefix("/api/v1/accounts").Subrouter()
	//   - GET  /transactions                      → 所有交易 (管理用)
	//   - POST /{accountId}/deposits              → 存款
	//   - POST /{accountId}/withdrawals           → 提款
	//   - GET  /{accountId}/balance               → 餘額
	//   - GET  /{accountId}/transactions          → 帳戶交易紀錄
	//   - GET  /{accountId}/transactions/{txId}   → 單筆交易
	accounts.HandleFunc("/transactions", s.allTransactions).Methods(http.MethodGet)
	accounts.HandleFunc("/{accountId}/deposits", s.deposit).Methods(http.MethodPost)
	accounts.HandleFunc("/{accountId}/withdrawals", s.withdraw).Methods(http.MethodPost)
	accounts.HandleFunc("/{accountId}/balance", s.balance).Methods(http.MethodGet)
	accounts.HandleFunc("/{accountId}/transactions", s.history).Methods(http.MethodGet)
	accounts.HandleFunc("/{accountId}/transactions/{transactionId}", s.transaction).Methods(http.MethodGet)

	// 子路由不會沿用父路由的錯誤處理，兩邊都要設定
	for _, router := range []*mux.Router{r, accounts} {
		router.NotFoundHandler = http.HandlerFunc(notFound)
		router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}
	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeErr(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
}
