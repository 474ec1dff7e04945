package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// Journal 已套用交易的稽核日誌 (*wal.WAL 實作此介面)
type Journal interface {
	Append(v any) error
}

// JournalReader 讀回本次執行寫入的稽核日誌 (*wal.WAL 實作此介面)
type JournalReader interface {
	ReadSession(callback func(jsonRaw []byte) error) error
}

// journalRecord 寫入稽核日誌的一行
type journalRecord struct {
	TransactionID uuid.UUID              `json:"transactionId"`
	AccountID     int64                  `json:"accountId"`
	Type          domain.TransactionType `json:"transactionType"`
	Amount        decimal.Decimal        `json:"amount"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// writeJournal 呼叫端必須持有帳戶鎖；失敗時保留底層錯誤
func (m *MutexLedger) writeJournal(tran *domain.Transaction) error {
	if m.journal == nil {
		return nil
	}
	err := m.journal.Append(journalRecord{
		TransactionID: tran.TransactionID,
		AccountID:     tran.AccountID,
		Type:          tran.Type,
		Amount:        tran.Amount,
		CreatedAt:     tran.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrJournalWriteFailed, err)
	}
	return nil
}

// VerifyJournal 比對稽核日誌與記憶體中的帳本
//
// 每個帳戶的日誌紀錄 (依序的 TransactionID) 必須與其交易紀錄完全相同，
// 餘額必須等於日誌金額總和。應在沒有寫入進行時呼叫 (例如關機時)。
//
// 回傳:
//
//	error: 讀取錯誤，或包含所有不一致之處的 ErrJournalMismatch
func (m *MutexLedger) VerifyJournal(r JournalReader) error {
	journaled := make(map[int64][]journalRecord)
	err := r.ReadSession(func(raw []byte) error {
		var rec journalRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		journaled[rec.AccountID] = append(journaled[rec.AccountID], rec)
		return nil
	})
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	var mismatches []error
	m.accounts.Range(func(key, value any) bool {
		account := value.(*domain.Account)
		records := journaled[account.ID]
		delete(journaled, account.ID)
		if err := reconcile(account.Snapshot(), records); err != nil {
			mismatches = append(mismatches, fmt.Errorf("account %d: %w", account.ID, err))
		}
		return true
	})

	orphans := make([]int64, 0, len(journaled))
	for accountID := range journaled {
		orphans = append(orphans, accountID)
	}
	slices.Sort(orphans)
	for _, accountID := range orphans {
		mismatches = append(mismatches, fmt.Errorf("account %d: journaled but not registered", accountID))
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrJournalMismatch, errors.Join(mismatches...))
	}
	return nil
}

func reconcile(state *domain.AccountState, records []journalRecord) error {
	if len(records) != len(state.Transactions) {
		return fmt.Errorf("%d journaled, %d applied", len(records), len(state.Transactions))
	}
	sum := decimal.Zero
	for i, rec := range records {
		if rec.TransactionID != state.Transactions[i].TransactionID {
			return fmt.Errorf("transaction %d: journaled %s, applied %s", i, rec.TransactionID, state.Transactions[i].TransactionID)
		}
		sum = sum.Add(rec.Amount)
	}
	if !sum.Equal(state.Balance) {
		return fmt.Errorf("journal sum %s, balance %s", sum, state.Balance)
	}
	return nil
}
