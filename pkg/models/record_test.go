package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	r, err := DecodeRecord([]byte(`{"id":"abc","upSince":1577836800123,"isDark":false,"lastRing":null,"flags":{"hasSpeaker":true}}`))
	require.NoError(t, err)

	id, err := r.String("id")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	assert.Equal(t, json.Number("1577836800123"), r["upSince"])

	ms, ok, err := r.Millis("upSince")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1577836800123), ms)

	_, ok, err = r.Millis("lastRing")
	require.NoError(t, err)
	assert.False(t, ok)

	dark, err := r.Bool("isDark")
	require.NoError(t, err)
	assert.False(t, dark)

	flags, err := r.Sub("flags")
	require.NoError(t, err)
	speaker, err := flags.Bool("hasSpeaker")
	require.NoError(t, err)
	assert.True(t, speaker)

	assert.True(t, r.Has("lastRing"))
	assert.False(t, r.Has("nope"))
}

func TestRecordFieldErrors(t *testing.T) {
	r := Record{"name": "Garage", "count": json.Number("3")}

	_, err := r.Field("missing")
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "missing", fieldErr.Field)
	assert.ErrorIs(t, err, ErrFieldNotFound)

	_, err = r.Bool("name")
	assert.Error(t, err)
	_, err = r.String("count")
	assert.Error(t, err)
	_, err = r.Sub("name")
	assert.Error(t, err)
	_, _, err = r.Millis("name")
	assert.Error(t, err)
}

func TestDecodeRecordRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{`[]`, `null`, `"x"`, `{`} {
		_, err := DecodeRecord([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{json.Number("42"), 42},
		{json.Number("1.9"), 1},
		{json.Number("-1.5"), -2},
		{float64(7.2), 7},
		{int64(9), 9},
		{3, 3},
	}
	for _, tt := range tests {
		got, err := ToInt64(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ToInt64("12")
	assert.Error(t, err)
}

func TestDecodeBootstrap(t *testing.T) {
	b, err := DecodeBootstrap([]byte(`{"nvr":{"id":"n"},"cameras":[{"id":"a"},{"id":"b"}],"lastUpdateId":"u"}`))
	require.NoError(t, err)
	assert.Equal(t, "n", b.NVR["id"])
	require.Len(t, b.Cameras, 2)
	assert.Equal(t, "a", b.Cameras[0]["id"])
	assert.Equal(t, "b", b.Cameras[1]["id"])
	assert.Equal(t, "u", b.Raw["lastUpdateId"])

	for _, doc := range []string{
		`{"cameras":[]}`,
		`{"nvr":{}}`,
		`{"nvr":[],"cameras":[]}`,
		`{"nvr":{},"cameras":{}}`,
		`{"nvr":{},"cameras":[1]}`,
	} {
		_, err := DecodeBootstrap([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestSummarizeCamera(t *testing.T) {
	s := SummarizeCamera(Record{
		"id":          "c1",
		"name":        "Front Door",
		"type":        "UVC G4 Doorbell",
		"state":       "CONNECTED",
		"isConnected": true,
		"isRecording": true,
	})
	assert.Equal(t, CameraSummary{
		ID:        "c1",
		Name:      "Front Door",
		Type:      "UVC G4 Doorbell",
		State:     "CONNECTED",
		Connected: true,
		Recording: true,
	}, s)
}
