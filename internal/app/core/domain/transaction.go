package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDateLayout 對外輸出交易時間的格式 (yyyy-MM-dd HH:mm:ss)
const TransactionDateLayout = "2006-01-02 15:04:05"

// TransactionType 交易類型
// 為了極致節省記憶體，使用 uint8；零值代表未知類型
type TransactionType uint8

const (
	// 未知 (零值，永遠不會通過驗證)
	TransactionTypeUnknown TransactionType = 0
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdrawal TransactionType = 2
)

// String 回傳對外使用的類型名稱
func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdrawal:
		return "Withdrawal"
	default:
		return "Unknown"
	}
}

// ParseTransactionType 將 "Deposit" / "Withdrawal" 轉為 TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case "Deposit":
		return TransactionTypeDeposit, nil
	case "Withdrawal":
		return TransactionTypeWithdrawal, nil
	default:
		return TransactionTypeUnknown, ErrInvalidTransactionType
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TransactionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TransactionType) UnmarshalText(b []byte) error {
	parsed, err := ParseTransactionType(string(b))
	*t = parsed
	return err
}

// TransactionRequest 外部送入的交易請求
type TransactionRequest struct {
	AccountID int64
	Type      TransactionType
	Amount    decimal.Decimal
}

// Transaction 已套用的交易紀錄，建立後不可變更
type Transaction struct {
	// TransactionID: 內部追蹤號 (UUID)，只出現在稽核日誌與 log
	TransactionID uuid.UUID
	AccountID     int64
	// CreatedAt: 伺服器指派的交易時間
	CreatedAt time.Time
	// Amount: 存款為正，提款為負
	Amount decimal.Decimal
	Type   TransactionType
}
