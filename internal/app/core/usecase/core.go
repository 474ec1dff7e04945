package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層，本身不保存狀態
type CoreUseCase struct {
	ledger Ledger
	logger logrus.FieldLogger
	// loc: 交易時間換算成日曆日期時使用的時區
	loc *time.Location
}

// Option 定義了 CoreUseCase 的配置選項函數
type Option func(*CoreUseCase)

// WithLogger 設定 logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *CoreUseCase) {
		c.logger = logger
	}
}

// WithLocation 設定日期篩選使用的時區
func WithLocation(loc *time.Location) Option {
	return func(c *CoreUseCase) {
		c.loc = loc
	}
}

func NewCoreUseCase(ledger Ledger, opts ...Option) *CoreUseCase {
	c := &CoreUseCase{
		ledger: ledger,
		logger: logrus.StandardLogger(),
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateAccount 建立帳戶
func (c *CoreUseCase) CreateAccount(ctx context.Context, accountID int64, initialBalance decimal.Decimal) error {
	entry := c.logger.WithFields(logrus.Fields{"accountId": accountID, "balance": initialBalance.String()})
	if err := c.ledger.CreateAccount(ctx, accountID, initialBalance); err != nil {
		entry.WithError(err).Info("CoreUseCase.CreateAccount.Rejected")
		return err
	}
	entry.Debug("CoreUseCase.CreateAccount.Complete")
	return nil
}

// RecordTransaction 處理交易
func (c *CoreUseCase) RecordTransaction(ctx context.Context, req *domain.TransactionRequest) error {
	entry := c.logger.WithFields(logrus.Fields{
		"accountId":       req.AccountID,
		"transactionType": req.Type.String(),
		"amount":          req.Amount.String(),
	})
	if err := c.ledger.PostTransaction(ctx, req); err != nil {
		entry.WithError(err).Info("CoreUseCase.RecordTransaction.Rejected")
		return err
	}
	entry.Debug("CoreUseCase.RecordTransaction.Complete")
	return nil
}

// GetBalance 取得帳戶餘額
func (c *CoreUseCase) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	return c.ledger.GetAccountBalance(ctx, accountID)
}

// ListTransactions 回傳日曆日期落在 [startDate, endDate] (含) 的交易，最新的在前
//
// 時間相同的交易，較晚插入的排在前面；回傳的 CreatedAt 已轉換到 c.loc，
// 輸出的日期與篩選使用的日期一致
func (c *CoreUseCase) ListTransactions(ctx context.Context, accountID int64, startDate, endDate time.Time) ([]domain.Transaction, error) {
	history, err := c.ledger.GetTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// startDate / endDate 只取其年月日
	start := c.day(startDate.Date())
	end := c.day(endDate.Date())

	matched := make([]domain.Transaction, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		day := c.dateOf(history[i].CreatedAt)
		if day.Before(start) || day.After(end) {
			continue
		}
		tran := history[i]
		tran.CreatedAt = tran.CreatedAt.In(c.loc)
		matched = append(matched, tran)
	}

	slices.SortStableFunc(matched, func(a, b domain.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return matched, nil
}

// dateOf 將時間截斷為 c.loc 時區的日曆日期
func (c *CoreUseCase) dateOf(t time.Time) time.Time {
	return c.day(t.In(c.loc).Date())
}

func (c *CoreUseCase) day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}
