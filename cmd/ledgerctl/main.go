// ledgerctl 是帳本服務的命令列客戶端 (經由 gRPC)
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	addr     = flag.String("addr", "localhost:50051", "ledger gRPC address")
	currency = flag.String("currency", "EUR", "currency used to display amounts")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&postCmd{deposit: true}, "transactions")
	commander.Register(&postCmd{deposit: false}, "transactions")
	commander.Register(&balanceCmd{}, "queries")
	commander.Register(&historyCmd{}, "queries")
	commander.Register(&getCmd{}, "queries")
	commander.Register(&listCmd{}, "queries")

	commander.ImportantFlag("addr")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
