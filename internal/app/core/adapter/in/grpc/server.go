package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

// NewServer 建立 gRPC server 並註冊帳本服務、健康檢查與 reflection
//
// 回傳:
//
//	*grpc.Server: 尚未 Serve 的 server
//	*health.Server: 關機時呼叫 Shutdown 讓健康檢查回報 NOT_SERVING
func NewServer(core *usecase.CoreUseCase, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(opts...)
	RegisterLedgerServiceServer(s, NewGrpcServer(core))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(s, healthServer)
	reflection.Register(s) // 方便 grpcurl 列出服務
	return s, healthServer
}

// toStatus 把帳本錯誤轉成 gRPC status
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrTransactionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrLedgerClosed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// parseAmount 金額解析，格式錯誤與非正數都是 InvalidArgument
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid amount %q", raw)
	}
	return amount, nil
}

func (s *GrpcServer) Deposit(ctx context.Context, req *TransactionRequest) (*TransactionReply, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	tran, err := s.core.Deposit(ctx, req.AccountID, amount, req.Description)
	if err != nil {
		return nil, toStatus(err)
	}
	return &TransactionReply{Transaction: toPBTransaction(tran)}, nil
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *TransactionRequest) (*TransactionReply, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	tran, err := s.core.Withdraw(ctx, req.AccountID, amount, req.Description)
	if err != nil {
		return nil, toStatus(err)
	}
	return &TransactionReply{Transaction: toPBTransaction(tran)}, nil
}

func (s *GrpcServer) GetBalance(ctx context.Context, req *wrapperspb.StringValue) (*BalanceReply, error) {
	balance, err := s.core.GetBalance(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return &BalanceReply{
		AccountID: balance.AccountID,
		Balance:   balance.Balance.String(),
	}, nil
}

func (s *GrpcServer) GetHistory(ctx context.Context, req *wrapperspb.StringValue) (*TransactionsReply, error) {
	history, err := s.core.GetHistory(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return &TransactionsReply{Transactions: toPBTransactions(history)}, nil
}

func (s *GrpcServer) GetTransaction(ctx context.Context, req *wrapperspb.StringValue) (*TransactionReply, error) {
	id, err := uuid.Parse(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid transaction id: "+err.Error())
	}
	tran, err := s.core.GetTransaction(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &TransactionReply{Transaction: toPBTransaction(tran)}, nil
}

func (s *GrpcServer) ListTransactions(ctx context.Context, _ *emptypb.Empty) (*TransactionsReply, error) {
	all, err := s.core.GetAllTransactions(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &TransactionsReply{Transactions: toPBTransactions(all)}, nil
}

var _ LedgerServiceServer = (*GrpcServer)(nil)
