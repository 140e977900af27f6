package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/capture"
	"github.com/dmitrijs2005/matchbox/internal/client/client"
	"github.com/dmitrijs2005/matchbox/internal/common"
	"github.com/dmitrijs2005/matchbox/internal/filex"
	"github.com/dmitrijs2005/matchbox/internal/logging"
	"github.com/dmitrijs2005/matchbox/internal/netx"
)

// Recorder is the capture capability the audio service drives.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (<-chan capture.Result, error)
	Recording() bool
	Captured() int64
}

// test seams
var (
	uploadPresigned   = netx.UploadPresigned
	downloadPresigned = netx.DownloadPresigned
	writeFileAtomic   = filex.WriteFileAtomic
)

// AudioService records a clip for a revealed record, stores it through a
// presigned URL and attaches the resulting key.
type AudioService interface {
	// StartRecording begins capture for recordID. An empty id picks the
	// first record the actor can currently attach audio to.
	StartRecording(ctx context.Context, recordID string) (string, error)
	StopAndAttach(ctx context.Context) (api.Record, error)
	// Recording reports the record being recorded for and the bytes
	// captured so far. ok is false when nothing is being recorded.
	Recording() (recordID string, captured int64, ok bool)
	// Download fetches the record's clip into the clips directory and
	// returns the local path.
	Download(ctx context.Context, recordID string) (string, error)
}

type audioService struct {
	client   client.Client
	session  *Session
	recorder Recorder
	clipsDir string
	logger   logging.Logger

	mu       sync.Mutex
	recordID string
}

func NewAudioService(c client.Client, session *Session, recorder Recorder, clipsDir string, logger logging.Logger) AudioService {
	return &audioService{
		client:   c,
		session:  session,
		recorder: recorder,
		clipsDir: clipsDir,
		logger:   logger.With("module", "audio"),
	}
}

func (a *audioService) StartRecording(ctx context.Context, recordID string) (string, error) {
	actor, err := a.session.Actor()
	if err != nil {
		return "", err
	}

	rec, err := a.target(ctx, actor.ID, recordID)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.recorder.Start(ctx); err != nil {
		return "", err
	}
	a.recordID = rec.ID
	return rec.ID, nil
}

// target resolves the record to record for and checks it accepts audio
// from actorID. The server repeats these checks on upload and attach.
func (a *audioService) target(ctx context.Context, actorID, recordID string) (api.Record, error) {
	if recordID == "" {
		records, err := a.client.ListRecords(ctx)
		if err != nil {
			return api.Record{}, err
		}
		for _, r := range records {
			if r.OwnerID == actorID && r.Status == "revealed" {
				return r, nil
			}
		}
		return api.Record{}, fmt.Errorf("%w: no revealed record to attach audio to", common.ErrorInvalidState)
	}

	rec, err := a.client.GetRecord(ctx, recordID)
	if err != nil {
		return api.Record{}, err
	}
	if rec.OwnerID != actorID {
		return api.Record{}, fmt.Errorf("%w: only the listing owner can attach audio", common.ErrorForbidden)
	}
	if rec.Status != "revealed" {
		return api.Record{}, fmt.Errorf("%w: record %s is %s", common.ErrorInvalidState, rec.ID, rec.Status)
	}
	return rec, nil
}

func (a *audioService) StopAndAttach(ctx context.Context) (api.Record, error) {
	a.mu.Lock()
	recordID := a.recordID
	ch, err := a.recorder.Stop()
	a.recordID = ""
	a.mu.Unlock()
	if err != nil {
		return api.Record{}, err
	}

	var res capture.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return api.Record{}, ctx.Err()
	}
	if res.Err != nil {
		return api.Record{}, res.Err
	}

	digest := res.Clip.DigestHex()
	upload, err := a.client.RequestAudioUpload(ctx, recordID, digest)
	if err != nil {
		return api.Record{}, err
	}

	if upload.UploadURL != "" {
		if err := uploadPresigned(ctx, upload.UploadURL, common.AudioContentType, res.Clip.Data); err != nil {
			return api.Record{}, err
		}
	} else {
		a.logger.Warn(ctx, "server has no object storage, keeping the clip locally only", "key", upload.Key)
	}

	if err := writeFileAtomic(filepath.Join(a.clipsDir, digest+".webm"), res.Clip.Data); err != nil {
		a.logger.Warn(ctx, "could not keep a local copy", "error", err)
	}

	return a.client.AttachAudio(ctx, recordID, upload.Key)
}

func (a *audioService) Recording() (string, int64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.recorder.Recording() {
		return "", 0, false
	}
	return a.recordID, a.recorder.Captured(), true
}

func (a *audioService) Download(ctx context.Context, recordID string) (string, error) {
	if _, err := a.session.Actor(); err != nil {
		return "", err
	}

	u, err := a.client.GetAudioURL(ctx, recordID)
	if err != nil {
		return "", err
	}
	data, err := downloadPresigned(ctx, u.URL)
	if err != nil {
		return "", err
	}

	path := filepath.Join(a.clipsDir, recordID+".webm")
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}
