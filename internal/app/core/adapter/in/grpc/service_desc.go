package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// 服務以 google.protobuf.Struct 作為訊息格式，不需要產生程式碼
const (
	ServiceName = "ledger.v1.LedgerService"

	MethodCreateAccount    = "/" + ServiceName + "/CreateAccount"
	MethodGetBalance       = "/" + ServiceName + "/GetBalance"
	MethodAddTransaction   = "/" + ServiceName + "/AddTransaction"
	MethodListTransactions = "/" + ServiceName + "/ListTransactions"
)

// LedgerServiceServer 是帳本 gRPC 服務的伺服器端介面
type LedgerServiceServer interface {
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterLedgerServiceServer 將實作註冊到 grpc.Server
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&ledgerServiceDesc, srv)
}

type unaryMethod func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler 產生 grpc.MethodDesc 需要的 handler，行為與 protoc-gen-go-grpc 產生的相同
func unaryHandler(fullMethod string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateAccount",
			Handler:    unaryHandler(MethodCreateAccount, LedgerServiceServer.CreateAccount),
		},
		{
			MethodName: "GetBalance",
			Handler:    unaryHandler(MethodGetBalance, LedgerServiceServer.GetBalance),
		},
		{
			MethodName: "AddTransaction",
			Handler:    unaryHandler(MethodAddTransaction, LedgerServiceServer.AddTransaction),
		},
		{
			MethodName: "ListTransactions",
			Handler:    unaryHandler(MethodListTransactions, LedgerServiceServer.ListTransactions),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/v1/ledger.proto",
}
