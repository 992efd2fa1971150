package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signetdash/signet/apiclient"
)

// staticTokens is a TokenSource with a fixed answer.
type staticTokens struct {
	header string
}

func (s staticTokens) AuthHeader() (string, bool) {
	return s.header, s.header != ""
}

func TestBearerAttachedForCurrentSession(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access-token-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, staticTokens{header: "Bearer access-token-1"})
	envelope, err := client.Get(context.Background(), "/documents")
	require.NoError(t, err)
	require.True(t, envelope.Success)
}

func TestBearerOmittedWhenAnonymous(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, staticTokens{})
	envelope, err := client.Get(context.Background(), "/documents")
	require.NoError(t, err)
	require.True(t, envelope.Success)
}

func TestSuccessEnvelopePassthrough(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dashboard/stats", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"totalDocuments":5,"pendingSignatures":2}}`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.Get(context.Background(), "/dashboard/stats")
	require.NoError(t, err)
	require.True(t, envelope.Success)
	require.Empty(t, envelope.Error)

	var stats struct {
		TotalDocuments int `json:"totalDocuments"`
	}
	require.NoError(t, envelope.DecodeData(&stats))
	require.Equal(t, 5, stats.TotalDocuments)
}

func TestFailureEnvelopeFromErrorStatus(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"db down"}`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.Get(context.Background(), "/dashboard/stats")
	require.NoError(t, err)
	require.False(t, envelope.Success)
	require.Equal(t, "db down", envelope.Message)
	require.Equal(t, "Status: 500", envelope.Error)
	require.Equal(t, http.StatusInternalServerError, envelope.StatusCode)
	require.Empty(t, envelope.Data)

	var backendErr *apiclient.BackendError
	require.ErrorAs(t, envelope.Err(), &backendErr)
	require.Equal(t, http.StatusInternalServerError, backendErr.StatusCode)
	require.Equal(t, "db down", backendErr.Message)
}

func TestFailureEnvelopeFallsBackToStatusText(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.Get(context.Background(), "/documents")
	require.NoError(t, err)
	require.False(t, envelope.Success)
	require.Equal(t, http.StatusText(http.StatusBadGateway), envelope.Message)
	require.Equal(t, "Status: 502", envelope.Error)
}

func TestUnauthorizedBecomesEnvelopeNotError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token expired"}`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, staticTokens{header: "Bearer stale"})
	envelope, err := client.Get(context.Background(), "/documents")
	require.NoError(t, err)
	require.False(t, envelope.Success)
	require.Equal(t, "token expired", envelope.Message)
	require.Equal(t, "Status: 401", envelope.Error)
}

func TestMalformedSuccessBodyBecomesFailureEnvelope(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{definitely not json`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.Get(context.Background(), "/documents")
	require.NoError(t, err)
	require.False(t, envelope.Success)
	require.NotEmpty(t, envelope.Message)
}

func TestBareArrayBodyWrappedAsPayload(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"doc-1"},{"id":"doc-2"}]`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.Get(context.Background(), "/documents")
	require.NoError(t, err)
	require.True(t, envelope.Success)
	require.JSONEq(t, `[{"id":"doc-1"},{"id":"doc-2"}]`, string(envelope.Data))
}

func TestTransportFailureIsAnError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.Get(context.Background(), "/documents")
	require.Error(t, err)
	require.Nil(t, envelope)
}

func TestPostSerializesJSONBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Contract", body["title"])
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.Post(context.Background(), "/documents", map[string]string{"title": "Contract"})
	require.NoError(t, err)
	require.True(t, envelope.Success)
}

func TestBinaryModeReturnsRawPayload(t *testing.T) {
	payload := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.Get(context.Background(), "/documents/doc-1/download",
		apiclient.WithResponseMode(apiclient.ModeBinary))
	require.NoError(t, err)
	require.True(t, envelope.Success)
	require.Equal(t, payload, envelope.Raw)
	require.Empty(t, envelope.Data)
}

func TestUploadBinaryBuildsMultipart(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "contract.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "file-bytes", string(content))

		require.Equal(t, "Contract", r.FormValue("title"))
		require.Equal(t, "legal", r.FormValue("sector"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"doc-1"}}`))
	}))
	t.Cleanup(backend.Close)

	client := apiclient.New(backend.URL, nil)
	envelope, err := client.UploadBinary(context.Background(), "/documents/upload", "contract.pdf",
		strings.NewReader("file-bytes"), map[string]string{"title": "Contract", "sector": "legal"})
	require.NoError(t, err)
	require.True(t, envelope.Success)
}
