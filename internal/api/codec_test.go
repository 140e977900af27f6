package api

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/ledger"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_Record(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123).UTC()
	rec := ledger.Record{
		ID:              "r1",
		SavedBy:         "u_me",
		ListingID:       "p1",
		CreatedAt:       now,
		ExpiresAt:       now.Add(4 * time.Minute),
		Revealed:        true,
		RevealedAt:      now.Add(time.Minute),
		RevealExpiresAt: now.Add(2 * time.Minute),
		Messages:        []ledger.Message{{SenderID: "u_me", Text: "hi", SentAt: now}},
		Attachment:      &ledger.Attachment{Ref: "audio/r1/ab.webm", AttachedAt: now},
	}
	in := CreateSaveResponse{Record: FromRecord(rec, "u_maya", now), Created: true}

	s, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, "revealed", s.Fields["record"].GetStructValue().Fields["status"].GetStringValue())

	var out CreateSaveResponse
	require.NoError(t, Decode(s, &out))

	// decoded times compare with Equal regardless of location
	assert.Empty(t, cmp.Diff(in, out))
}

func TestFromRecord_OptionalTimes(t *testing.T) {
	rec := ledger.Record{ID: "r1", SavedBy: "u_me", ListingID: "p3", CreatedAt: time.UnixMilli(0), ExpiresAt: time.UnixMilli(4000)}

	got := FromRecord(rec, "u_me", time.UnixMilli(100))
	require.NotNil(t, got.ExpiresAt)
	assert.Nil(t, got.RevealedAt)
	assert.Nil(t, got.RevealExpiresAt)
	assert.Nil(t, got.Attachment)
	assert.Equal(t, "pending", got.Status)

	got = FromRecord(rec, "u_me", time.UnixMilli(5000))
	assert.Equal(t, "lapsed", got.Status)
}

func TestEncodeDecode_Listings(t *testing.T) {
	in := ListListingsResponse{Listings: catalog.Default().Listings()}

	s, err := Encode(in)
	require.NoError(t, err)

	var out ListListingsResponse
	require.NoError(t, Decode(s, &out))
	assert.Equal(t, in, out)
}

func TestDecode_NilStruct(t *testing.T) {
	var req RecordRequest
	require.NoError(t, Decode(nil, &req))
	assert.Empty(t, req.RecordID)
}

func TestDecode_TypeMismatch(t *testing.T) {
	s, err := Encode(map[string]any{"record_id": 42})
	require.NoError(t, err)

	var req RecordRequest
	assert.Error(t, Decode(s, &req))
}

func TestEncode_Unmarshalable(t *testing.T) {
	_, err := Encode(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)

	_, err = Encode([]string{"not", "an", "object"})
	assert.Error(t, err)
}
