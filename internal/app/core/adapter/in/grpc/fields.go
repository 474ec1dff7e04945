package grpc

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// DateLayout 查詢區間使用的日期格式 (yyyy-MM-dd)
const DateLayout = "2006-01-02"

func field(in *structpb.Struct, name string) (*structpb.Value, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return nil, fmt.Errorf("missing field %q", name)
	}
	return v, nil
}

// int64Field 接受整數值的 number 或十進位字串
func int64Field(in *structpb.Struct, name string) (int64, error) {
	v, err := field(in, name)
	if err != nil {
		return 0, err
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, fmt.Errorf("field %q must be an integer", name)
		}
		return int64(f), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(k.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", name, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("field %q must be an integer", name)
	}
}

// decimalField 接受 number 或十進位字串，字串可保留完整精度
func decimalField(in *structpb.Struct, name string) (decimal.Decimal, error) {
	v, err := field(in, name)
	if err != nil {
		return decimal.Zero, err
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(k.NumberValue), nil
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(k.StringValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("field %q: %w", name, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("field %q must be a number", name)
	}
}

func stringField(in *structpb.Struct, name string) (string, error) {
	v, err := field(in, name)
	if err != nil {
		return "", err
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q must be a string", name)
	}
	return s.StringValue, nil
}

func dateField(in *structpb.Struct, name string) (time.Time, error) {
	s, err := stringField(in, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %q: %w", name, err)
	}
	return t, nil
}

// transactionValue 交易的對外格式 {accountId, transactionDate, transactionType, amount}
func transactionValue(tran domain.Transaction) map[string]any {
	return map[string]any{
		"accountId":       tran.AccountID,
		"transactionDate": tran.CreatedAt.Format(domain.TransactionDateLayout),
		"transactionType": tran.Type.String(),
		"amount":          tran.Amount.InexactFloat64(),
	}
}

// parseTransactionValue 是 transactionValue 的反向轉換，時間以本機時區解析
func parseTransactionValue(in *structpb.Struct) (domain.Transaction, error) {
	var tran domain.Transaction
	var err error
	if tran.AccountID, err = int64Field(in, "accountId"); err != nil {
		return tran, err
	}
	date, err := stringField(in, "transactionDate")
	if err != nil {
		return tran, err
	}
	if tran.CreatedAt, err = time.ParseInLocation(domain.TransactionDateLayout, date, time.Local); err != nil {
		return tran, err
	}
	typ, err := stringField(in, "transactionType")
	if err != nil {
		return tran, err
	}
	if tran.Type, err = domain.ParseTransactionType(typ); err != nil {
		return tran, err
	}
	tran.Amount, err = decimalField(in, "amount")
	return tran, err
}
