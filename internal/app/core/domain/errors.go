package domain

import "errors"

var (
	// ErrInvalidAmount 金額不合法 (存款需 > 0, 提款需 < 0)
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrInvalidTransactionType 不支援的交易類型
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrJournalWriteFailed 寫入稽核日誌失敗
	ErrJournalWriteFailed = errors.New("journal write failed")

	// ErrJournalMismatch 稽核日誌與帳本狀態不一致
	ErrJournalMismatch = errors.New("journal does not match ledger")

	// ErrInvalidDateRange 起始日期晚於結束日期
	ErrInvalidDateRange = errors.New("start date is after end date")
)
