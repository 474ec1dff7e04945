package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// LedgerClient 帳本 gRPC 服務的客戶端
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func (c *LedgerClient) CreateAccount(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	_, err := c.invoke(ctx, MethodCreateAccount, map[string]any{
		"accountId": accountID,
		"balance":   balance.String(),
	})
	return err
}

func (c *LedgerClient) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	out, err := c.invoke(ctx, MethodGetBalance, map[string]any{"accountId": accountID})
	if err != nil {
		return decimal.Zero, err
	}
	return decimalField(out, "balance")
}

func (c *LedgerClient) AddTransaction(ctx context.Context, req domain.TransactionRequest) error {
	_, err := c.invoke(ctx, MethodAddTransaction, map[string]any{
		"accountId":       req.AccountID,
		"transactionType": req.Type.String(),
		"amount":          req.Amount.String(),
	})
	return err
}

// ListTransactions 只取 startDate / endDate 的日期部分
func (c *LedgerClient) ListTransactions(ctx context.Context, accountID int64, startDate, endDate time.Time) ([]domain.Transaction, error) {
	out, err := c.invoke(ctx, MethodListTransactions, map[string]any{
		"accountId": accountID,
		"startDate": startDate.Format(DateLayout),
		"endDate":   endDate.Format(DateLayout),
	})
	if err != nil {
		return nil, err
	}

	values := out.GetFields()["transactions"].GetListValue().GetValues()
	transactions := make([]domain.Transaction, 0, len(values))
	for i, v := range values {
		tran, err := parseTransactionValue(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		transactions = append(transactions, tran)
	}
	return transactions, nil
}

func (c *LedgerClient) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out); err != nil {
		return nil, fromStatus(err)
	}
	return out, nil
}

var domainErrors = []error{
	domain.ErrAccountNotFound,
	domain.ErrAccountAlreadyExists,
	domain.ErrInvalidAmount,
	domain.ErrInvalidTransactionType,
	domain.ErrInsufficientFunds,
	domain.ErrInvalidDateRange,
}

// fromStatus 將伺服器回傳的 status 還原成 domain 錯誤，無法對應時原樣回傳
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, domainErr := range domainErrors {
		if st.Message() == domainErr.Error() {
			return fmt.Errorf("%w (%s)", domainErr, st.Code())
		}
	}
	return err
}
