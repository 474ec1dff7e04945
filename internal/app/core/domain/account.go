package domain

import (
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// AccountState 帳戶某一時間點的不可變快照
// 餘額與交易紀錄一起發佈，讀取端不會看到只更新一半的狀態
type AccountState struct {
	Balance      decimal.Decimal
	Transactions []Transaction
}

// Account 帳戶
//
// 結構:
//
//	ID: 外部指定的帳戶 ID
//	Mu: 帳戶專屬的互斥鎖，序列化該帳戶的寫入
//	state: 目前的快照，讀取不需加鎖
type Account struct {
	ID    int64
	Mu    sync.Mutex
	state atomic.Pointer[AccountState]
}

// NewAccount 建立一個餘額為 0、沒有交易紀錄的帳戶
func NewAccount(id int64) *Account {
	a := &Account{ID: id}
	a.state.Store(&AccountState{Balance: decimal.Zero})
	return a
}

// Snapshot 回傳目前的快照，呼叫端不可修改其內容
func (a *Account) Snapshot() *AccountState {
	return a.state.Load()
}

// Apply 追加一筆交易並更新餘額
// 呼叫端必須持有 Mu；交易需事先通過驗證
func (a *Account) Apply(tran Transaction) {
	cur := a.state.Load()
	// 只會寫入 len 之後的位置，舊快照看到的元素不受影響
	next := &AccountState{
		Balance:      cur.Balance.Add(tran.Amount),
		Transactions: append(cur.Transactions, tran),
	}
	a.state.Store(next)
}

// Validate 以餘額快照檢查交易請求是否合法
func Validate(req *TransactionRequest, balance decimal.Decimal) error {
	switch req.Type {
	case TransactionTypeDeposit:
		if !req.Amount.IsPositive() {
			return ErrInvalidAmount
		}
	case TransactionTypeWithdrawal:
		if !req.Amount.IsNegative() {
			return ErrInvalidAmount
		}
		if req.Amount.Abs().GreaterThan(balance) {
			return ErrInsufficientFunds
		}
	default:
		return ErrInvalidTransactionType
	}
	return nil
}
