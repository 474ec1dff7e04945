package main

import (
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
	memory_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/config"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/logging"
	"github.com/JoeShih716/go-account-ledger/pkg/wal"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	verifyJournal := flag.Bool("verify-journal", false, "reconcile the journal against the ledger on shutdown")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("config.Load")
	}

	logger, err := logging.SetupLogging(cfg.Log.Level)
	if err != nil {
		logrus.WithError(err).Fatal("logging.SetupLogging")
	}
	logger.Info("ledger-core starting")

	loc, err := cfg.Ledger.Location()
	if err != nil {
		logger.WithError(err).Fatal("config.Ledger.Location")
	}

	// 2. 初始化帳本 (稽核日誌為選用)
	var ledgerOpts []memory_adapter.Option
	var journal *wal.WAL
	if cfg.Journal.Path != "" {
		journal, err = wal.Open(cfg.Journal.Path, wal.WithSyncOnWrite(*cfg.Journal.SyncOnWrite))
		if err != nil {
			logger.WithError(err).Fatal("wal.Open")
		}
		// 程式結束時關閉日誌
		defer journal.Close()
		ledgerOpts = append(ledgerOpts, memory_adapter.WithJournal(journal))
		logger.WithField("path", cfg.Journal.Path).Info("journal enabled")
	}
	ledger := memory_adapter.NewMutexLedger(ledgerOpts...)

	// 3. 初始化 UseCase
	coreUseCase := usecase.NewCoreUseCase(ledger,
		usecase.WithLogger(logger),
		usecase.WithLocation(loc),
	)

	// 4. 初始化 gRPC Adapter (Driving Adapter)
	grpcServer := grpc_adapter.NewGrpcServer(coreUseCase)

	// 5. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		logger.WithError(err).Fatal("net.Listen")
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(logging.UnaryServerInterceptor(logger)))
	grpc_adapter.RegisterLedgerServiceServer(s, grpcServer)
	reflection.Register(s)

	// Graceful Shutdown
	go func() {
		logger.WithField("addr", cfg.GRPC.Addr).Info("GrpcServer.Serve.listening")
		if err := s.Serve(lis); err != nil {
			logger.WithError(err).Error("GrpcServer.Serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("GrpcServer.Serve.shutting down")

	s.GracefulStop()

	// 停機後帳本不再變動，比對本次執行寫入的日誌
	if *verifyJournal {
		if journal == nil {
			logger.Warn("verify-journal requested but journal is disabled")
		} else if err := ledger.VerifyJournal(journal); err != nil {
			logger.WithError(err).Error("MutexLedger.VerifyJournal")
		} else {
			logger.Info("MutexLedger.VerifyJournal.ok")
		}
	}
	logger.WithField("accounts", ledger.AccountCount()).Info("ledger-core exited")
}
