package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
type Ledger interface {
	// CreateAccount 建立帳戶並記錄初始存款
	CreateAccount(ctx context.Context, accountID int64, initialBalance decimal.Decimal) error
	// 不再分 Deposit/Withdrawal，直接看 req.Type 決定
	PostTransaction(ctx context.Context, req *domain.TransactionRequest) error
	// GetAccountBalance 取得帳戶餘額
	GetAccountBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	// GetTransactions 依插入順序取得帳戶所有交易
	GetTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}
