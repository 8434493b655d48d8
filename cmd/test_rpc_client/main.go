package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
	grpcpool "github.com/JoeShih716/go-account-ledger/pkg/grpc"
)

const (
	TotalCount  = 100000
	Concurrency = 1000
)

// 壓測：對同一個新帳戶併發存款，最後餘額必須剛好等於 筆數 × 金額
func main() {
	addr := flag.String("addr", "localhost:50051", "ledger gRPC address")
	total := flag.Int("n", TotalCount, "number of deposits")
	concurrency := flag.Int("c", Concurrency, "concurrent requests")
	amountFlag := flag.String("amount", "0.01", "amount of each deposit")
	flag.Parse()

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		log.Fatalf("invalid amount: %v", err)
	}

	pool := grpcpool.NewPool()
	defer pool.Close()
	conn, err := pool.GetConnection(*addr)
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}
	c := grpc_adapter.NewLedgerClient(conn)

	// 10 碼帳戶 ID，每次壓測都用新帳戶
	accountID := "lt" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	wg.Add(*total)
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := c.Deposit(ctx, &grpc_adapter.TransactionRequest{
				AccountID:   accountID,
				Amount:      amount.String(),
				Description: fmt.Sprintf("load test #%d", idx),
			})
			if err != nil {
				failed.Add(1)
				if idx%10000 == 0 {
					log.Printf("Deposit %d failed: %v", idx, err)
				}
			}
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v (%d failed)\n", *total, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())

	bal, err := c.GetBalance(ctx, accountID)
	if err != nil {
		log.Fatalf("GetBalance failed: %v", err)
	}
	got, err := decimal.NewFromString(bal.Balance)
	if err != nil {
		log.Fatalf("invalid balance %q: %v", bal.Balance, err)
	}
	want := amount.Mul(decimal.NewFromInt(int64(*total) - failed.Load()))
	if !got.Equal(want) {
		log.Fatalf("lost updates: account %s balance %s, want %s", accountID, got, want)
	}
	fmt.Printf("Account %s balance %s == %d x %s\n", accountID, got, int64(*total)-failed.Load(), amount)
}
