package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "ledger.v1.LedgerService"

// LedgerServiceServer gRPC 服務端介面
type LedgerServiceServer interface {
	Deposit(context.Context, *TransactionRequest) (*TransactionReply, error)
	Withdraw(context.Context, *TransactionRequest) (*TransactionReply, error)
	GetBalance(context.Context, *wrapperspb.StringValue) (*BalanceReply, error)
	GetHistory(context.Context, *wrapperspb.StringValue) (*TransactionsReply, error)
	GetTransaction(context.Context, *wrapperspb.StringValue) (*TransactionReply, error)
	ListTransactions(context.Context, *emptypb.Empty) (*TransactionsReply, error)
}

// RegisterLedgerServiceServer 註冊服務
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// unaryHandler 產生 grpc.MethodHandler，所有方法共用同一套 decode / interceptor 流程
func unaryHandler[Req any, Resp any](method string, call func(LedgerServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + serviceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LedgerServiceDesc 手寫的服務描述，訊息以 CodecName 編碼 (JSON)。
// 沒有對應的 .proto 檔註冊在 protoregistry，reflection 只能列出服務名稱，無法 describe。
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Deposit", Handler: unaryHandler("Deposit", LedgerServiceServer.Deposit)},
		{MethodName: "Withdraw", Handler: unaryHandler("Withdraw", LedgerServiceServer.Withdraw)},
		{MethodName: "GetBalance", Handler: unaryHandler("GetBalance", LedgerServiceServer.GetBalance)},
		{MethodName: "GetHistory", Handler: unaryHandler("GetHistory", LedgerServiceServer.GetHistory)},
		{MethodName: "GetTransaction", Handler: unaryHandler("GetTransaction", LedgerServiceServer.GetTransaction)},
		{MethodName: "ListTransactions", Handler: unaryHandler("ListTransactions", LedgerServiceServer.ListTransactions)},
	},
	Streams: []grpc.StreamDesc{},
}

// LedgerClient gRPC 客戶端
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) Deposit(ctx context.Context, in *TransactionRequest, opts ...grpc.CallOption) (*TransactionReply, error) {
	return invoke[TransactionReply](ctx, c.cc, "Deposit", in, opts)
}

func (c *LedgerClient) Withdraw(ctx context.Context, in *TransactionRequest, opts ...grpc.CallOption) (*TransactionReply, error) {
	return invoke[TransactionReply](ctx, c.cc, "Withdraw", in, opts)
}

func (c *LedgerClient) GetBalance(ctx context.Context, accountID string, opts ...grpc.CallOption) (*BalanceReply, error) {
	return invoke[BalanceReply](ctx, c.cc, "GetBalance", wrapperspb.String(accountID), opts)
}

func (c *LedgerClient) GetHistory(ctx context.Context, accountID string, opts ...grpc.CallOption) (*TransactionsReply, error) {
	return invoke[TransactionsReply](ctx, c.cc, "GetHistory", wrapperspb.String(accountID), opts)
}

func (c *LedgerClient) GetTransaction(ctx context.Context, transactionID string, opts ...grpc.CallOption) (*TransactionReply, error) {
	return invoke[TransactionReply](ctx, c.cc, "GetTransaction", wrapperspb.String(transactionID), opts)
}

func (c *LedgerClient) ListTransactions(ctx context.Context, opts ...grpc.CallOption) (*TransactionsReply, error) {
	return invoke[TransactionsReply](ctx, c.cc, "ListTransactions", &emptypb.Empty{}, opts)
}
