package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
)

// formatAmount 以貨幣格式顯示金額，例如 "100.50" EUR -> "€100.50"。
// 超過貨幣小數位的部分只影響顯示，不影響帳本上的精確值。
func formatAmount(amount, code string) (string, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	// to get a never nil currency I need to call the Money constructor
	cur := money.New(0, code).Currency()
	minor := value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display(), nil
}

// printTransactions 以表格輸出交易
func printTransactions(w io.Writer, code string, trans ...*grpc_adapter.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tACCOUNT\tTYPE\tAMOUNT\tTIMESTAMP\tDESCRIPTION")
	for _, tran := range trans {
		if tran == nil {
			continue
		}
		amount, err := formatAmount(tran.Amount, code)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tran.Sequence, tran.ID, tran.AccountID, tran.Type, amount, tran.Timestamp, tran.Description)
	}
	return tw.Flush()
}
