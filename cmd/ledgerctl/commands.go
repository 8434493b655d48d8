package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
	grpcpool "github.com/JoeShih716/go-account-ledger/pkg/grpc"
)

const requestTimeout = 10 * time.Second

// withClient 建立連線並呼叫 fn，錯誤印到 stderr
func withClient(ctx context.Context, fn func(ctx context.Context, c *grpc_adapter.LedgerClient) error) subcommands.ExitStatus {
	pool := grpcpool.NewPool()
	defer pool.Close()
	conn, err := pool.GetConnection(*addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to %s: %v\n", *addr, err)
		return subcommands.ExitFailure
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := fn(ctx, grpc_adapter.NewLedgerClient(conn)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// postCmd 存款或提款
type postCmd struct {
	deposit     bool
	amount      string
	description string
}

func (c *postCmd) Name() string {
	if c.deposit {
		return "deposit"
	}
	return "withdraw"
}

func (c *postCmd) Synopsis() string {
	if c.deposit {
		return "deposit an amount into an account"
	}
	return "withdraw an amount from an account"
}

func (c *postCmd) Usage() string {
	return fmt.Sprintf(`ledgerctl %s -a <amount> -m <description> <accountId>

`, c.Name())
}

func (c *postCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "amount, a positive decimal number")
	f.StringVar(&c.description, "m", "", "description of the transaction")
}

func (c *postCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	req := &grpc_adapter.TransactionRequest{
		AccountID:   f.Arg(0),
		Amount:      c.amount,
		Description: c.description,
	}
	return withClient(ctx, func(ctx context.Context, cl *grpc_adapter.LedgerClient) error {
		post := cl.Withdraw
		if c.deposit {
			post = cl.Deposit
		}
		reply, err := post(ctx, req)
		if err != nil {
			return err
		}
		return printTransactions(os.Stdout, *currency, reply.Transaction)
	})
}

// balanceCmd 查詢餘額
type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the current balance of an account" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance <accountId>

`
}
func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (*balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withClient(ctx, func(ctx context.Context, cl *grpc_adapter.LedgerClient) error {
		reply, err := cl.GetBalance(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		formatted, err := formatAmount(reply.Balance, *currency)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(os.Stdout, "%s\t%s\n", reply.AccountID, formatted)
		return err
	})
}

// historyCmd 查詢帳戶交易紀錄
type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the transactions of an account in admission order" }
func (*historyCmd) Usage() string {
	return `ledgerctl history <accountId>

`
}
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withClient(ctx, func(ctx context.Context, cl *grpc_adapter.LedgerClient) error {
		reply, err := cl.GetHistory(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		return printTransactions(os.Stdout, *currency, reply.Transactions...)
	})
}

// getCmd 依 ID 查詢單筆交易
type getCmd struct{}

func (*getCmd) Name() string     { return "get" }
func (*getCmd) Synopsis() string { return "show a single transaction by id" }
func (*getCmd) Usage() string {
	return `ledgerctl get <transactionId>

`
}
func (*getCmd) SetFlags(*flag.FlagSet) {}

func (*getCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withClient(ctx, func(ctx context.Context, cl *grpc_adapter.LedgerClient) error {
		reply, err := cl.GetTransaction(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		return printTransactions(os.Stdout, *currency, reply.Transaction)
	})
}

// listCmd 列出所有交易
type listCmd struct{}

func (*listCmd) Name() string     { return "transactions" }
func (*listCmd) Synopsis() string { return "list every transaction across all accounts" }
func (*listCmd) Usage() string {
	return `ledgerctl transactions

`
}
func (*listCmd) SetFlags(*flag.FlagSet) {}

func (*listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withClient(ctx, func(ctx context.Context, cl *grpc_adapter.LedgerClient) error {
		reply, err := cl.ListTransactions(ctx)
		if err != nil {
			return err
		}
		return printTransactions(os.Stdout, *currency, reply.Transactions...)
	})
}
