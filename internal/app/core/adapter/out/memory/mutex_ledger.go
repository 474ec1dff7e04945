package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

// MutexLedger 是一個使用「每個帳戶一把 Mutex」實現的帳本
//
// 結構:
//
//	accounts: 帳戶 ID -> *domain.Account，LoadOrStore 保證註冊只成功一次
//	journal: 稽核日誌 (可為 nil)
//	now: 時鐘，測試時可替換
//
// 不同帳戶之間沒有共用的鎖，互不阻塞
type MutexLedger struct {
	accounts sync.Map // map[int64]*domain.Account
	journal  Journal
	now      func() time.Time
}

// Option 定義了 MutexLedger 的配置選項函數
type Option func(*MutexLedger)

// WithJournal 設定稽核日誌，每筆成功的交易在套用前寫入
func WithJournal(j Journal) Option {
	return func(m *MutexLedger) {
		m.journal = j
	}
}

// WithClock 替換交易時間的來源
func WithClock(now func() time.Time) Option {
	return func(m *MutexLedger) {
		m.now = now
	}
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
func NewMutexLedger(opts ...Option) *MutexLedger {
	m := &MutexLedger{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateAccount 註冊帳戶並以 initialBalance 建立第一筆 Deposit
//
// 參數:
//
//	ctx: 上下文
//	accountID: 帳戶 ID (由外部指定)
//	initialBalance: 初始餘額，可為 0，不可為負
//
// 回傳:
//
//	error: ErrAccountAlreadyExists / ErrInvalidAmount / ErrJournalWriteFailed
func (m *MutexLedger) CreateAccount(ctx context.Context, accountID int64, initialBalance decimal.Decimal) error {
	if initialBalance.IsNegative() {
		return domain.ErrInvalidAmount
	}

	account := domain.NewAccount(accountID)
	// 先鎖住新帳戶，註冊後其他寫入者要等日誌寫完才能進入
	account.Mu.Lock()
	defer account.Mu.Unlock()

	// seed 不經過 Validate，註冊前就套用，讀取端不會看到沒有初始存款的帳戶
	seed := m.newTransaction(accountID, domain.TransactionTypeDeposit, initialBalance)
	account.Apply(seed)

	if _, loaded := m.accounts.LoadOrStore(accountID, account); loaded {
		return domain.ErrAccountAlreadyExists
	}
	if err := m.writeJournal(&seed); err != nil {
		m.accounts.CompareAndDelete(accountID, account)
		return err
	}
	return nil
}

// GetAccountBalance 取得指定帳戶的當前餘額
//
// 參數:
//
//	ctx: 上下文
//	accountID: 帳戶 ID
//
// 回傳:
//
//	decimal.Decimal: 帳戶餘額
//	error: 查詢錯誤 (如帳戶不存在)
func (m *MutexLedger) GetAccountBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	account, err := m.load(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Snapshot().Balance, nil
}

// GetTransactions 依插入順序回傳帳戶的所有交易 (複本)
func (m *MutexLedger) GetTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	account, err := m.load(accountID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(account.Snapshot().Transactions), nil
}

// PostTransaction 處理交易請求
//
// 持有帳戶鎖期間: 取餘額快照 -> 驗證 -> 寫日誌 -> 追加交易並更新餘額
// 驗證失敗時帳戶狀態不變
//
// 參數:
//
//	ctx: 上下文
//	req: 交易請求
//
// 回傳:
//
//	error: ErrAccountNotFound / ErrInvalidAmount / ErrInsufficientFunds / ErrInvalidTransactionType / ErrJournalWriteFailed
func (m *MutexLedger) PostTransaction(ctx context.Context, req *domain.TransactionRequest) error {
	account, err := m.load(req.AccountID)
	if err != nil {
		return err
	}

	account.Mu.Lock()
	defer account.Mu.Unlock()

	// 建立時日誌寫入失敗的帳戶會被移除，等鎖的請求不可再套用到它
	if !m.registered(account) {
		return domain.ErrAccountNotFound
	}

	balance := account.Snapshot().Balance
	if err := domain.Validate(req, balance); err != nil {
		return err
	}

	tran := m.newTransaction(account.ID, req.Type, req.Amount)
	if err := m.writeJournal(&tran); err != nil {
		return err
	}
	account.Apply(tran)
	return nil
}

// AccountCount 回傳已註冊的帳戶數
func (m *MutexLedger) AccountCount() int {
	n := 0
	m.accounts.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (m *MutexLedger) load(accountID int64) (*domain.Account, error) {
	v, ok := m.accounts.Load(accountID)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return v.(*domain.Account), nil
}

func (m *MutexLedger) registered(account *domain.Account) bool {
	v, ok := m.accounts.Load(account.ID)
	return ok && v.(*domain.Account) == account
}

func (m *MutexLedger) newTransaction(accountID int64, txType domain.TransactionType, amount decimal.Decimal) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.New(),
		AccountID:     accountID,
		CreatedAt:     m.now(),
		Amount:        amount,
		Type:          txType,
	}
}

var _ usecase.Ledger = (*MutexLedger)(nil)
