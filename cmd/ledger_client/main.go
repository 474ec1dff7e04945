package main

import (
	"context"
	"errors"
	"flag"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	grpc_adapter "github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	grpcpool "github.com/JoeShih716/go-account-ledger/pkg/grpc"
	"github.com/JoeShih716/go-account-ledger/pkg/logging"
)

// 對單一帳戶併發存款，最後檢查餘額是否等於 初始 + N*A
func main() {
	target := flag.String("target", "localhost:50051", "ledger gRPC address")
	accountID := flag.Int64("account", 1, "account to load")
	total := flag.Int("n", 10000, "number of deposits")
	concurrency := flag.Int("c", 100, "concurrent callers")
	amount := flag.String("amount", "1.25", "deposit amount")
	logLevel := flag.String("log-level", "info", "log level; debug logs every call")
	flag.Parse()

	depositAmount, err := decimal.NewFromString(*amount)
	if err != nil {
		logrus.WithError(err).Fatal("invalid -amount")
	}

	logger, err := logging.SetupLogging(*logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("logging.SetupLogging")
	}

	pool := grpcpool.NewPool(grpcpool.WithInterceptor(logging.UnaryClientInterceptor(logger)))
	defer pool.Close()
	conn, err := pool.GetConnection(*target)
	if err != nil {
		logger.WithError(err).Fatal("pool.GetConnection")
	}
	client := grpc_adapter.NewLedgerClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	err = client.CreateAccount(ctx, *accountID, decimal.Zero)
	if err != nil && !errors.Is(err, domain.ErrAccountAlreadyExists) {
		logger.WithError(err).Fatal("CreateAccount")
	}
	initial, err := client.GetBalance(ctx, *accountID)
	if err != nil {
		logger.WithError(err).Fatal("GetBalance")
	}

	var wg sync.WaitGroup
	var failed atomic.Int64
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			err := client.AddTransaction(ctx, domain.TransactionRequest{
				AccountID: *accountID,
				Type:      domain.TransactionTypeDeposit,
				Amount:    depositAmount,
			})
			if err != nil {
				failed.Add(1)
				if idx%1000 == 0 {
					logger.WithError(err).Warnf("deposit %d failed", idx)
				}
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	final, err := client.GetBalance(ctx, *accountID)
	if err != nil {
		logger.WithError(err).Fatal("GetBalance")
	}
	succeeded := int64(*total) - failed.Load()
	expected := initial.Add(depositAmount.Mul(decimal.NewFromInt(succeeded)))

	entry := logger.WithFields(logrus.Fields{
		"requests": *total,
		"failed":   failed.Load(),
		"elapsed":  elapsed.String(),
		"tps":      float64(*total) / elapsed.Seconds(),
		"balance":  final.String(),
		"expected": expected.String(),
	})
	if !final.Equal(expected) {
		entry.Fatal("balance mismatch")
	}
	entry.Info("load complete")
}
