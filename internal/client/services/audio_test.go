package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/capture"
	"github.com/dmitrijs2005/matchbox/internal/common"
	"github.com/dmitrijs2005/matchbox/internal/cryptox"
	"github.com/dmitrijs2005/matchbox/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRecorder yields a fixed clip on Stop.
type stubRecorder struct {
	clip     []byte
	startErr error
	started  bool
}

func (r *stubRecorder) Start(context.Context) error {
	if r.startErr != nil {
		return r.startErr
	}
	r.started = true
	return nil
}

func (r *stubRecorder) Recording() bool { return r.started }

func (r *stubRecorder) Captured() int64 {
	if !r.started {
		return 0
	}
	return int64(len(r.clip))
}

func (r *stubRecorder) Stop() (<-chan capture.Result, error) {
	if !r.started {
		return nil, common.ErrorInvalidState
	}
	r.started = false
	ch := make(chan capture.Result, 1)
	ch <- capture.Result{Clip: capture.Clip{Data: r.clip, Digest: cryptox.PayloadDigest(r.clip)}}
	close(ch)
	return ch, nil
}

func stubTransfers(t *testing.T) (uploaded map[string][]byte) {
	t.Helper()
	uploaded = map[string][]byte{}

	origUp, origDown := uploadPresigned, downloadPresigned
	uploadPresigned = func(_ context.Context, url, contentType string, data []byte) error {
		if contentType != common.AudioContentType {
			return errors.New("wrong content type")
		}
		uploaded[url] = data
		return nil
	}
	downloadPresigned = func(_ context.Context, url string) ([]byte, error) {
		return []byte("downloaded:" + url), nil
	}
	t.Cleanup(func() { uploadPresigned, downloadPresigned = origUp, origDown })
	return uploaded
}

func revealedFor(fc *fakeClient, owner string) {
	fc.records["r1"] = api.Record{ID: "r1", ListingID: "p1", OwnerID: owner, SavedBy: "u_me", Status: "revealed", Revealed: true}
}

func TestAudioService_RecordUploadAttach(t *testing.T) {
	uploaded := stubTransfers(t)
	fc := newFakeClient()
	fc.uploadURL = "http://s3.local"
	revealedFor(fc, "u_maya")

	clip := []byte("webm clip")
	dir := t.TempDir()
	as := NewAudioService(fc, signedIn(t, fc, "facebook"), &stubRecorder{clip: clip}, dir, logging.Nop{})
	ctx := context.Background()

	id, err := as.StartRecording(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "r1", id, "picks the revealed record the actor owns")

	rec, err := as.StopAndAttach(ctx)
	require.NoError(t, err)

	digest := cryptox.DigestHex(clip)
	key := "audio/r1/" + digest + ".webm"
	require.NotNil(t, rec.Attachment)
	assert.Equal(t, key, rec.Attachment.Ref)
	assert.Equal(t, clip, uploaded["http://s3.local/"+key])

	local, err := os.ReadFile(filepath.Join(dir, digest+".webm"))
	require.NoError(t, err)
	assert.Equal(t, clip, local)

	path, err := as.Download(ctx, "r1")
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "downloaded:http://s3.local/"+key, string(got))
}

func TestAudioService_WithoutObjectStorage(t *testing.T) {
	uploaded := stubTransfers(t)
	fc := newFakeClient()
	revealedFor(fc, "u_maya")

	as := NewAudioService(fc, signedIn(t, fc, "facebook"), &stubRecorder{clip: []byte("x")}, t.TempDir(), logging.Nop{})
	ctx := context.Background()

	_, err := as.StartRecording(ctx, "r1")
	require.NoError(t, err)
	rec, err := as.StopAndAttach(ctx)
	require.NoError(t, err)

	assert.NotNil(t, rec.Attachment)
	assert.Empty(t, uploaded)
}

func TestAudioService_TargetChecks(t *testing.T) {
	stubTransfers(t)
	ctx := context.Background()

	t.Run("not the owner", func(t *testing.T) {
		fc := newFakeClient()
		revealedFor(fc, "u_maya")
		as := NewAudioService(fc, signedIn(t, fc, "email"), &stubRecorder{}, t.TempDir(), logging.Nop{})

		_, err := as.StartRecording(ctx, "r1")
		assert.ErrorIs(t, err, common.ErrorForbidden)
	})

	t.Run("not revealed", func(t *testing.T) {
		fc := newFakeClient()
		fc.records["r1"] = api.Record{ID: "r1", OwnerID: "u_maya", Status: "pending"}
		as := NewAudioService(fc, signedIn(t, fc, "facebook"), &stubRecorder{}, t.TempDir(), logging.Nop{})

		_, err := as.StartRecording(ctx, "r1")
		assert.ErrorIs(t, err, common.ErrorInvalidState)
		_, err = as.StartRecording(ctx, "")
		assert.ErrorIs(t, err, common.ErrorInvalidState)
	})

	t.Run("device unavailable", func(t *testing.T) {
		fc := newFakeClient()
		revealedFor(fc, "u_maya")
		rec := &stubRecorder{startErr: common.ErrorDeviceUnavailable}
		as := NewAudioService(fc, signedIn(t, fc, "facebook"), rec, t.TempDir(), logging.Nop{})

		_, err := as.StartRecording(ctx, "r1")
		assert.ErrorIs(t, err, common.ErrorDeviceUnavailable)

		_, err = as.StopAndAttach(ctx)
		assert.ErrorIs(t, err, common.ErrorInvalidState)
	})
}

func TestAudioService_DownloadWithoutAttachment(t *testing.T) {
	stubTransfers(t)
	fc := newFakeClient()
	as := NewAudioService(fc, signedIn(t, fc, "email"), &stubRecorder{}, t.TempDir(), logging.Nop{})

	_, err := as.Download(context.Background(), "r1")
	assert.ErrorIs(t, err, common.ErrorInvalidState)
}

func TestAudioService_RealRecorder(t *testing.T) {
	stubTransfers(t)
	fc := newFakeClient()
	revealedFor(fc, "u_maya")

	path := filepath.Join(t.TempDir(), "src.webm")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))
	recorder := capture.NewRecorder(capture.FileDevice{Path: path}, logging.Nop{}, capture.WithChunkSize(4))

	as := NewAudioService(fc, signedIn(t, fc, "facebook"), recorder, t.TempDir(), logging.Nop{})
	ctx := context.Background()

	_, _, ok := as.Recording()
	assert.False(t, ok)

	_, err := as.StartRecording(ctx, "r1")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		id, captured, ok := as.Recording()
		return ok && id == "r1" && captured == 10
	}, time.Second, 5*time.Millisecond)

	rec, err := as.StopAndAttach(ctx)
	require.NoError(t, err)
	assert.Equal(t, "audio/r1/"+cryptox.DigestHex([]byte("0123456789"))+".webm", rec.Attachment.Ref)

	_, _, ok = as.Recording()
	assert.False(t, ok)
}
