package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// callTimeout bounds every unary call that arrives without a deadline.
const callTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, callTimeout)
		defer cancel()
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewMatchboxClient dials endpointURL lazily; extra options are appended to
// the defaults (insecure transport, token interceptor).
func NewMatchboxClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := api.Invoke[api.PingResponse](ctx, s.conn, api.MethodPing, api.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// SignIn picks the mock actor for provider (or actorID directly, when set)
// and keeps its access token for later calls.
func (s *GRPCClient) SignIn(ctx context.Context, provider, actorID string) (catalog.Actor, error) {
	resp, err := api.Invoke[api.SignInResponse](ctx, s.conn, api.MethodSignIn, api.SignInRequest{Provider: provider, ActorID: actorID})
	if err != nil {
		return catalog.Actor{}, s.mapError(err)
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.mu.Unlock()

	return resp.Actor, nil
}

func (s *GRPCClient) ListListings(ctx context.Context) ([]catalog.Listing, error) {
	resp, err := api.Invoke[api.ListListingsResponse](ctx, s.conn, api.MethodListListings, api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Listings, nil
}

func (s *GRPCClient) ListRecords(ctx context.Context) ([]api.Record, error) {
	resp, err := api.Invoke[api.ListRecordsResponse](ctx, s.conn, api.MethodListRecords, api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Records, nil
}

func (s *GRPCClient) GetRecord(ctx context.Context, recordID string) (api.Record, error) {
	return s.recordCall(ctx, api.MethodGetRecord, api.RecordRequest{RecordID: recordID})
}

func (s *GRPCClient) CreateSave(ctx context.Context, listingID string) (api.Record, bool, error) {
	resp, err := api.Invoke[api.CreateSaveResponse](ctx, s.conn, api.MethodCreateSave, api.CreateSaveRequest{ListingID: listingID})
	if err != nil {
		return api.Record{}, false, s.mapError(err)
	}
	return resp.Record, resp.Created, nil
}

func (s *GRPCClient) RequestReveal(ctx context.Context, recordID string) (api.Record, error) {
	return s.recordCall(ctx, api.MethodRequestReveal, api.RecordRequest{RecordID: recordID})
}

func (s *GRPCClient) GenerateReplies(ctx context.Context, recordID string) ([]string, error) {
	resp, err := api.Invoke[api.GenerateRepliesResponse](ctx, s.conn, api.MethodGenerateReplies, api.RecordRequest{RecordID: recordID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Replies, nil
}

func (s *GRPCClient) SendMessage(ctx context.Context, recordID, text string) (api.Record, error) {
	return s.recordCall(ctx, api.MethodSendMessage, api.SendMessageRequest{RecordID: recordID, Text: text})
}

func (s *GRPCClient) RequestAudioUpload(ctx context.Context, recordID, digestHex string) (api.AudioUploadResponse, error) {
	resp, err := api.Invoke[api.AudioUploadResponse](ctx, s.conn, api.MethodRequestAudioUpload, api.AudioUploadRequest{RecordID: recordID, Digest: digestHex})
	if err != nil {
		return api.AudioUploadResponse{}, s.mapError(err)
	}
	return *resp, nil
}

func (s *GRPCClient) AttachAudio(ctx context.Context, recordID, ref string) (api.Record, error) {
	return s.recordCall(ctx, api.MethodAttachAudio, api.AttachAudioRequest{RecordID: recordID, Ref: ref})
}

func (s *GRPCClient) GetAudioURL(ctx context.Context, recordID string) (api.AudioURLResponse, error) {
	resp, err := api.Invoke[api.AudioURLResponse](ctx, s.conn, api.MethodGetAudioURL, api.RecordRequest{RecordID: recordID})
	if err != nil {
		return api.AudioURLResponse{}, s.mapError(err)
	}
	return *resp, nil
}

func (s *GRPCClient) recordCall(ctx context.Context, method string, req any) (api.Record, error) {
	resp, err := api.Invoke[api.RecordResponse](ctx, s.conn, method, req)
	if err != nil {
		return api.Record{}, s.mapError(err)
	}
	return resp.Record, nil
}

// mapError turns transport failures into ErrUnavailable and a rejected token
// into ErrNotSignedIn. Ledger errors already unwrap to the common sentinels.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case codes.Unauthenticated:
		if errors.Is(err, common.ErrorUnauthorized) {
			return fmt.Errorf("%w: %w", ErrNotSignedIn, err)
		}
	}
	return err
}
