package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
	http_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/http"
	journal_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/journal"
	memory_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/mysql"
	nats_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/nats"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/internal/config"
	"github.com/JoeShih716/go-account-ledger/pkg/journal"
	"github.com/JoeShih716/go-account-ledger/pkg/mysql"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. 稽核輸出 (只寫不讀)
	sinks, closers := buildSinks(cfg.Audit)
	dispatcher := usecase.NewAuditDispatcher(cfg.Audit.QueueSize, sinks...)
	dispatcher.Start(ctx)

	// 3. 帳本引擎
	var (
		ledger     usecase.Ledger
		stopLedger func()
	)
	switch cfg.Ledger.Engine {
	case config.EngineLMAX:
		lmax := memory_adapter.NewLMAXLedger(cfg.Ledger.QueueSize)
		lmax.Start(ctx)
		ledger, stopLedger = lmax, lmax.Close
	default:
		ledger, stopLedger = memory_adapter.NewMutexLedger(), func() {}
	}
	log.Printf("Ledger engine: %s, audit sinks: %d", cfg.Ledger.Engine, len(sinks))

	// 4. 初始化 UseCase
	coreUseCase := usecase.NewCoreUseCase(ledger, usecase.WithPublisher(dispatcher))

	// 5. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	s, healthServer := grpc_adapter.NewServer(coreUseCase)
	go func() {
		log.Printf("Starting gRPC server on %s", cfg.Server.GRPCAddr)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("failed to serve grpc: %v", err)
		}
	}()

	// 6. 啟動 HTTP Server
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: http_adapter.NewServer(coreUseCase).Router(),
	}
	go func() {
		log.Printf("Starting HTTP server on %s", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve http: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 先停止接收請求，再排空帳本與稽核佇列
	healthServer.Shutdown()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	s.GracefulStop()
	stopLedger()
	dispatcher.Close()
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Printf("close audit sink: %v", err)
		}
	}
	log.Println("Server exited")
}

// buildSinks 依設定建立稽核輸出，連線失敗直接結束程式
func buildSinks(cfg config.AuditConfig) ([]usecase.AuditSink, []io.Closer) {
	var (
		sinks   []usecase.AuditSink
		closers []io.Closer
	)
	if cfg.Journal.Enabled {
		var opts []journal.Option
		if cfg.Journal.SyncEachWrite {
			opts = append(opts, journal.WithSyncEachWrite())
		}
		j, err := journal.Open(cfg.Journal.Path, opts...)
		if err != nil {
			log.Fatalf("Failed to open audit journal: %v", err)
		}
		sinks = append(sinks, journal_adapter.NewSink(j))
		closers = append(closers, j)
	}
	if cfg.MySQL.Enabled {
		dbClient, err := mysql.NewClient(cfg.MySQL.Config)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		log.Println("Connected to MySQL successfully")
		sink, err := mysql_adapter.NewAuditSink(dbClient)
		if err != nil {
			log.Fatalf("Failed to init MySQL audit sink: %v", err)
		}
		sinks = append(sinks, sink)
		closers = append(closers, dbClient)
	}
	if cfg.NATS.Enabled {
		pub, err := nats_adapter.Connect(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		log.Printf("Publishing transactions to NATS subject %s", cfg.NATS.Subject)
		sinks = append(sinks, pub)
		closers = append(closers, pub)
	}
	return sinks, closers
}
