package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/logging"
)

type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := int64Field(req, "accountId")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	balance, err := decimalField(req, "balance")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	addLogData(ctx, "accountId", accountID)

	if err := s.core.CreateAccount(ctx, accountID, balance); err != nil {
		return nil, toStatus(err)
	}
	return successResponse()
}

func (s *GrpcServer) GetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := int64Field(req, "accountId")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	addLogData(ctx, "accountId", accountID)

	balance, err := s.core.GetBalance(ctx, accountID)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"accountId": accountID,
		"balance":   balance.InexactFloat64(),
	})
}

func (s *GrpcServer) AddTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := int64Field(req, "accountId")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	typeName, err := stringField(req, "transactionType")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	addLogData(ctx, "accountId", accountID)

	// 未知類型交給帳本回傳 ErrInvalidTransactionType
	txType, _ := domain.ParseTransactionType(typeName)
	tx := &domain.TransactionRequest{
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
	}
	if err := s.core.RecordTransaction(ctx, tx); err != nil {
		return nil, toStatus(err)
	}
	return successResponse()
}

func (s *GrpcServer) ListTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := int64Field(req, "accountId")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	startDate, err := dateField(req, "startDate")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	endDate, err := dateField(req, "endDate")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if startDate.After(endDate) {
		return nil, toStatus(domain.ErrInvalidDateRange)
	}
	addLogData(ctx, "accountId", accountID)

	transactions, err := s.core.ListTransactions(ctx, accountID, startDate, endDate)
	if err != nil {
		return nil, toStatus(err)
	}
	addLogData(ctx, "transactionCount", len(transactions))

	list := make([]any, len(transactions))
	for i, tran := range transactions {
		list[i] = transactionValue(tran)
	}
	return structpb.NewStruct(map[string]any{"transactions": list})
}

func successResponse() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"success": true})
}

func addLogData(ctx context.Context, key string, value any) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData(key, value)
	}
}

// toStatus 將 domain 錯誤轉成 gRPC status，全部屬於呼叫端錯誤
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrInvalidDateRange):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ LedgerServiceServer = (*GrpcServer)(nil)
