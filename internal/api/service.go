package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "matchbox.v1.MatchboxService"

const (
	MethodPing               = "Ping"
	MethodSignIn             = "SignIn"
	MethodListListings       = "ListListings"
	MethodListRecords        = "ListRecords"
	MethodGetRecord          = "GetRecord"
	MethodCreateSave         = "CreateSave"
	MethodRequestReveal      = "RequestReveal"
	MethodGenerateReplies    = "GenerateReplies"
	MethodSendMessage        = "SendMessage"
	MethodRequestAudioUpload = "RequestAudioUpload"
	MethodAttachAudio        = "AttachAudio"
	MethodGetAudioURL        = "GetAudioURL"
)

// FullMethod returns the gRPC path of a method, e.g. /matchbox.v1.MatchboxService/Ping.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	FullMethod(MethodPing):         true,
	FullMethod(MethodSignIn):       true,
	FullMethod(MethodListListings): true,
}

type MatchboxServer interface {
	Ping(context.Context, *Empty) (*PingResponse, error)
	SignIn(context.Context, *SignInRequest) (*SignInResponse, error)
	ListListings(context.Context, *Empty) (*ListListingsResponse, error)
	ListRecords(context.Context, *Empty) (*ListRecordsResponse, error)
	GetRecord(context.Context, *RecordRequest) (*RecordResponse, error)
	CreateSave(context.Context, *CreateSaveRequest) (*CreateSaveResponse, error)
	RequestReveal(context.Context, *RecordRequest) (*RecordResponse, error)
	GenerateReplies(context.Context, *RecordRequest) (*GenerateRepliesResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*RecordResponse, error)
	RequestAudioUpload(context.Context, *AudioUploadRequest) (*AudioUploadResponse, error)
	AttachAudio(context.Context, *AttachAudioRequest) (*RecordResponse, error)
	GetAudioURL(context.Context, *RecordRequest) (*AudioURLResponse, error)
}

// ServiceDesc describes MatchboxService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchboxServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, MatchboxServer.Ping),
		unary(MethodSignIn, MatchboxServer.SignIn),
		unary(MethodListListings, MatchboxServer.ListListings),
		unary(MethodListRecords, MatchboxServer.ListRecords),
		unary(MethodGetRecord, MatchboxServer.GetRecord),
		unary(MethodCreateSave, MatchboxServer.CreateSave),
		unary(MethodRequestReveal, MatchboxServer.RequestReveal),
		unary(MethodGenerateReplies, MatchboxServer.GenerateReplies),
		unary(MethodSendMessage, MatchboxServer.SendMessage),
		unary(MethodRequestAudioUpload, MatchboxServer.RequestAudioUpload),
		unary(MethodAttachAudio, MatchboxServer.AttachAudio),
		unary(MethodGetAudioURL, MatchboxServer.GetAudioURL),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "matchbox/v1/matchbox.proto",
}

func RegisterMatchboxServer(s grpc.ServiceRegistrar, srv MatchboxServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary adapts a typed method to the Struct-in, Struct-out handler grpc expects.
func unary[Req, Resp any](name string, call func(MatchboxServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			invoke := func(ctx context.Context, req any) (any, error) {
				var r Req
				if err := Decode(req.(*structpb.Struct), &r); err != nil {
					return nil, status.Error(codes.InvalidArgument, err.Error())
				}
				resp, err := call(srv.(MatchboxServer), ctx, &r)
				if err != nil {
					return nil, err
				}
				out, err := Encode(resp)
				if err != nil {
					return nil, status.Error(codes.Internal, err.Error())
				}
				return out, nil
			}

			if interceptor == nil {
				return invoke(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, invoke)
		},
	}
}
