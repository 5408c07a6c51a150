package fcm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	firebase "firebase.google.com/go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("device-token", NotificationData{
		Title:     "New bid",
		Body:      "R 4 200 on your Nguni bull",
		Data:      map[string]string{"type": "bid"},
		ChannelID: "bids",
		Tag:       "171234",
	})

	assert.Equal(t, "device-token", msg.Token)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, "New bid", msg.Notification.Title)
	assert.Equal(t, "bid", msg.Data["type"])

	require.NotNil(t, msg.Android)
	assert.Equal(t, "high", msg.Android.Priority)
	require.NotNil(t, msg.Android.Notification)
	assert.Equal(t, "bids", msg.Android.Notification.ChannelID)
	assert.Equal(t, "171234", msg.Android.Notification.Tag)
}

type fcmResponse struct {
	status int
	body   string
}

func (r fcmResponse) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: r.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(r.body)),
		Request:    req,
	}, nil
}

func newTestClient(t *testing.T, resp fcmResponse) *Client {
	t.Helper()
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: "agristock-test"},
		option.WithHTTPClient(&http.Client{Transport: resp}))
	require.NoError(t, err)
	mc, err := app.Messaging(ctx)
	require.NoError(t, err)
	return NewClient(mc, nil)
}

func TestSendToDevice_ErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		resp        fcmResponse
		wantInvalid bool
	}{
		{
			name: "unregistered token",
			resp: fcmResponse{http.StatusNotFound, `{"error":{"code":404,"status":"NOT_FOUND","message":"Requested entity was not found.",` +
				`"details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"UNREGISTERED"}]}}`},
			wantInvalid: true,
		},
		{
			name: "sender id mismatch",
			resp: fcmResponse{http.StatusForbidden, `{"error":{"code":403,"status":"PERMISSION_DENIED","message":"SenderId mismatch",` +
				`"details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"SENDER_ID_MISMATCH"}]}}`},
			wantInvalid: true,
		},
		{
			name: "bad payload",
			resp: fcmResponse{http.StatusBadRequest, `{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"Invalid data payload key",` +
				`"details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"INVALID_ARGUMENT"}]}}`},
			wantInvalid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestClient(t, tt.resp).SendToDevice(context.Background(), "device-token", NotificationData{Title: "New bid"})
			require.Error(t, err)
			assert.Equal(t, tt.wantInvalid, errors.Is(err, ErrTokenInvalid))
		})
	}
}

func TestSendToDevice_Success(t *testing.T) {
	c := newTestClient(t, fcmResponse{http.StatusOK, `{"name":"projects/agristock-test/messages/1"}`})
	assert.NoError(t, c.SendToDevice(context.Background(), "device-token", NotificationData{Title: "New bid"}))
}
