package main

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agristock/agristock-api/internal/domain/model"
	"github.com/agristock/agristock-api/internal/service"
)

func TestPrintPreparedRequestIncludesMethodAndBody(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer func() {
		os.Stdout = oldStdout
	}()

	os.Stdout = w

	sink := &model.AlertSink{ID: "sink-1", Name: "ops-webhook"}
	prep := &service.PreparedRequest{
		Method:   "POST",
		URL:      "https://hooks.example.com/agristock",
		Headers:  map[string]string{"X-Token": "abc"},
		Body:     []byte(`{"kind":"low_stock"}`),
		OkStatus: 200,
		Retry:    2,
	}
	err = printPreparedRequest(sink, prep)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	os.Stdout = oldStdout

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	outStr := string(output)
	require.Contains(t, outStr, `Prepared request for sink "ops-webhook" (sink-1)`)
	require.Contains(t, outStr, "POST https://hooks.example.com/agristock (expect 200, retry 2)")
	require.Contains(t, outStr, "Header X-Token: abc")
	require.Contains(t, outStr, `"kind": "low_stock"`)
}

func TestValidateFireAlertOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    fireAlertOptions
		wantErr string
	}{
		{
			name: "valid by sink name",
			opts: fireAlertOptions{SinkName: "ops", Kind: "low_stock", Message: "m", Timeout: time.Second},
		},
		{
			name:    "both sink selectors",
			opts:    fireAlertOptions{SinkID: "a", SinkName: "b", Kind: "low_stock", Message: "m", Timeout: time.Second},
			wantErr: "exactly one",
		},
		{
			name:    "unknown kind",
			opts:    fireAlertOptions{SinkID: "a", Kind: "flooding", Message: "m", Timeout: time.Second},
			wantErr: "invalid kind",
		},
		{
			name:    "missing message",
			opts:    fireAlertOptions{SinkID: "a", Kind: "maintenance_due", Timeout: time.Second},
			wantErr: "message is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFireAlertOptions(&tt.opts)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAlertKeyPattern(t *testing.T) {
	require.Equal(t, "alert:*", alertKeyPattern(""))
	require.Equal(t, "alert:low_stock:*", alertKeyPattern(" Low_Stock "))
}

func TestRenderTTL(t *testing.T) {
	require.Equal(t, "no expiry", renderTTL(-1*time.Second))
	require.Equal(t, "key missing", renderTTL(-2*time.Second))
	require.Equal(t, "30s", renderTTL(30*time.Second))
}

func TestIsLikelyRemoteHost(t *testing.T) {
	require.False(t, isLikelyRemoteHost("localhost"))
	require.False(t, isLikelyRemoteHost("127.0.0.1"))
	require.False(t, isLikelyRemoteHost("dev-box.local"))
	require.False(t, isLikelyRemoteHost(""))
	require.True(t, isLikelyRemoteHost("db.prod.internal"))
	require.True(t, isLikelyRemoteHost("10.2.3.4"))
}
