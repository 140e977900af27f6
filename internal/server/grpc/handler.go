package grpc

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/common"
	"github.com/dmitrijs2005/matchbox/internal/ledger"
	"github.com/dmitrijs2005/matchbox/internal/server/blobstore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *api.SignInRequest) (*api.SignInResponse, error) {
	actor, token, err := s.auth.SignIn(ctx, req.Provider, req.ActorID)
	if err != nil {
		return nil, s.fail(ctx, "sign_in", err)
	}
	return &api.SignInResponse{AccessToken: token, Actor: actor}, nil
}

func (s *GRPCServer) ListListings(ctx context.Context, _ *api.Empty) (*api.ListListingsResponse, error) {
	return &api.ListListingsResponse{Listings: s.catalog.Listings()}, nil
}

func (s *GRPCServer) ListRecords(ctx context.Context, _ *api.Empty) (*api.ListRecordsResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := &api.ListRecordsResponse{Records: []api.Record{}}
	for _, r := range s.ledger.ListFor(actorID) {
		dto, err := s.toDTO(r, now)
		if err != nil {
			return nil, s.fail(ctx, "list_records", err)
		}
		resp.Records = append(resp.Records, dto)
	}
	return resp, nil
}

func (s *GRPCServer) GetRecord(ctx context.Context, req *api.RecordRequest) (*api.RecordResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.participantRecord(actorID, req.RecordID)
	if err != nil {
		return nil, s.fail(ctx, "get_record", err)
	}
	return s.recordResponse(ctx, "get_record", r)
}

func (s *GRPCServer) CreateSave(ctx context.Context, req *api.CreateSaveRequest) (*api.CreateSaveResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r, created, err := s.ledger.CreateSave(ctx, actorID, req.ListingID, s.now())
	s.observe("create_save", err)
	if err != nil {
		return nil, s.fail(ctx, "create_save", err)
	}

	dto, err := s.toDTO(r, s.now())
	if err != nil {
		return nil, s.fail(ctx, "create_save", err)
	}
	return &api.CreateSaveResponse{Record: dto, Created: created}, nil
}

func (s *GRPCServer) RequestReveal(ctx context.Context, req *api.RecordRequest) (*api.RecordResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.ledger.RequestReveal(ctx, actorID, req.RecordID, s.now())
	s.observe("request_reveal", err)
	if err != nil {
		return nil, s.fail(ctx, "request_reveal", err)
	}
	return s.recordResponse(ctx, "request_reveal", r)
}

func (s *GRPCServer) GenerateReplies(ctx context.Context, req *api.RecordRequest) (*api.GenerateRepliesResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	replies, err := s.ledger.GenerateReplies(ctx, actorID, req.RecordID, s.now())
	s.observe("generate_replies", err)
	if err != nil {
		return nil, s.fail(ctx, "generate_replies", err)
	}
	return &api.GenerateRepliesResponse{Replies: replies}, nil
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.RecordResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.ledger.SendMessage(ctx, actorID, req.RecordID, req.Text, s.now())
	s.observe("send_message", err)
	if err != nil {
		return nil, s.fail(ctx, "send_message", err)
	}
	return s.recordResponse(ctx, "send_message", r)
}

// RequestAudioUpload reserves the content-addressed key for a clip and, when
// object storage is configured, a presigned PUT URL for it. The record must
// currently accept an attachment from the caller.
func (s *GRPCServer) RequestAudioUpload(ctx context.Context, req *api.AudioUploadRequest) (*api.AudioUploadResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	digest, err := hex.DecodeString(req.Digest)
	if err != nil || len(digest) == 0 {
		return nil, s.fail(ctx, "request_audio_upload", fmt.Errorf("%w: digest must be non-empty hex", common.ErrorValidation))
	}
	if err := s.ledger.CheckAttach(actorID, req.RecordID, s.now()); err != nil {
		return nil, s.fail(ctx, "request_audio_upload", err)
	}

	key := blobstore.AudioKey(req.RecordID, digest)
	resp := &api.AudioUploadResponse{Key: key}
	if s.blobs == nil {
		return resp, nil
	}

	p, err := s.blobs.PresignPut(ctx, key)
	if err != nil {
		return nil, s.fail(ctx, "request_audio_upload", err)
	}
	resp.UploadURL = p.URL
	resp.ExpiresAt = p.ExpiresAt
	return resp, nil
}

func (s *GRPCServer) AttachAudio(ctx context.Context, req *api.AttachAudioRequest) (*api.RecordResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.ledger.AttachAudio(ctx, actorID, req.RecordID, ledger.PayloadRef(req.Ref), s.now())
	s.observe("attach_audio", err)
	if err != nil {
		return nil, s.fail(ctx, "attach_audio", err)
	}
	return s.recordResponse(ctx, "attach_audio", r)
}

// GetAudioURL returns a presigned GET URL for the record's attachment.
func (s *GRPCServer) GetAudioURL(ctx context.Context, req *api.RecordRequest) (*api.AudioURLResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.participantRecord(actorID, req.RecordID)
	if err != nil {
		return nil, s.fail(ctx, "get_audio_url", err)
	}
	if r.Attachment == nil {
		return nil, s.fail(ctx, "get_audio_url", fmt.Errorf("%w: record %s has no attachment", common.ErrorInvalidState, r.ID))
	}
	if s.blobs == nil {
		return nil, status.Error(codes.Unimplemented, "object storage is not configured")
	}

	p, err := s.blobs.PresignGet(ctx, string(r.Attachment.Ref))
	if err != nil {
		return nil, s.fail(ctx, "get_audio_url", err)
	}
	return &api.AudioURLResponse{URL: p.URL, ExpiresAt: p.ExpiresAt}, nil
}

// participantRecord returns the record if actorID saved it or owns its listing.
func (s *GRPCServer) participantRecord(actorID, recordID string) (ledger.Record, error) {
	r, err := s.ledger.Get(recordID)
	if err != nil {
		return ledger.Record{}, err
	}
	owner, err := s.ledger.OwnerOf(r)
	if err != nil {
		return ledger.Record{}, err
	}
	if actorID != r.SavedBy && actorID != owner {
		return ledger.Record{}, fmt.Errorf("%w: %s is not a participant of record %s", common.ErrorForbidden, actorID, r.ID)
	}
	return r, nil
}

func (s *GRPCServer) recordResponse(ctx context.Context, op string, r ledger.Record) (*api.RecordResponse, error) {
	dto, err := s.toDTO(r, s.now())
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return &api.RecordResponse{Record: dto}, nil
}

func (s *GRPCServer) toDTO(r ledger.Record, now time.Time) (api.Record, error) {
	owner, err := s.ledger.OwnerOf(r)
	if err != nil {
		return api.Record{}, err
	}
	return api.FromRecord(r, owner, now), nil
}

func (s *GRPCServer) observe(action string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveAction(action, err)
	}
}

// fail logs err and converts it into a status error.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := api.ToStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "op", op, "error", err)
	} else {
		s.logger.Info(ctx, "request rejected", "op", op, "error", err)
	}
	return st
}
