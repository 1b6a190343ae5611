package suggest

import (
	"context"
	"fmt"
	"net"

	"dipnego/game"
	"dipnego/strategy"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Policy decides which deals a power should propose.
type Policy func(ctx context.Context, req Request) (strategy.Suggestion, error)

// Server exposes a Policy as the DealSuggester gRPC service.
type Server struct {
	policy     Policy
	grpcServer *grpc.Server
}

func NewServer(policy Policy) *Server {
	if policy == nil {
		policy = DefaultPolicy
	}
	s := &Server{policy: policy, grpcServer: grpc.NewServer()}
	s.grpcServer.RegisterService(&serviceDesc, s)
	return s
}

// Serve listens on addr and blocks until stopped.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.ServeOn(lis)
}

func (s *Server) ServeOn(lis net.Listener) error {
	log.Info().Msgf("suggestion server listening on %s", lis.Addr())
	return s.grpcServer.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}

func (s *Server) Suggest(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := requestFromStruct(in)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad request: %v", err)
	}
	suggestion, err := s.policy(ctx, req)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "policy: %v", err)
	}
	log.Debug().Str("power", string(req.Me)).Msgf("suggesting %+v for %s", suggestion, req.Time)
	return suggestionToStruct(suggestion)
}

// DefaultPolicy asks for defensive deals in spring and offensive ones in
// fall, rotating through units and partners from year to year.
func DefaultPolicy(_ context.Context, req Request) (strategy.Suggestion, error) {
	rotate := req.Time.Year
	if req.Time.Phase == game.Spring {
		return strategy.Suggestion{
			DefendUnit: strategy.Action{Execute: len(req.Units) > 0, Index: rotate % max(len(req.Units), 1)},
			DefendSC:   strategy.Action{Execute: len(req.Negotiating) > 0, Index: rotate % max(len(req.Negotiating), 1)},
		}, nil
	}
	return strategy.Suggestion{
		Attack:        strategy.Action{Execute: len(req.Units) > 0, Index: rotate % max(len(req.Units), 1)},
		SupportAttack: strategy.Action{Execute: len(req.Units) > 1, Index: (rotate + 1) % max(len(req.Units), 1)},
	}, nil
}

type suggester interface {
	Suggest(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

func suggestHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(suggester).Suggest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: suggestMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(suggester).Suggest(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*suggester)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Suggest", Handler: suggestHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dipnego/suggest",
}
