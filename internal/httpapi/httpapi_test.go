package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/calcitb/internal/advisor"
	"github.com/abhisek/calcitb/internal/itb"
	"github.com/abhisek/calcitb/internal/llm"
	sess "github.com/abhisek/calcitb/internal/session"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func newTestServer(t *testing.T, provider llm.Provider) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if provider != nil {
		opts.Advisor = advisor.New(provider, advisor.DefaultConfig())
		opts.ModelLabel = provider.ModelID()
	}

	srv := httptest.NewServer(New(opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["ai"])

	_, err = uuid.Parse(resp.Header.Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, nil)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/health", nil)
	req.Header.Set("X-Request-ID", id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, id, resp.Header.Get("X-Request-ID"))
}

func TestBands(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/v1/bands")
	require.NoError(t, err)
	defer resp.Body.Close()

	bands := decode[[]BandResponse](t, resp)
	require.Len(t, bands, len(itb.Bands))
	assert.Equal(t, itb.CategoryCalcification, bands[0].Category)
	assert.Equal(t, "≥ 1.41", bands[0].Range)
	assert.Equal(t, "#059669", bands[1].Style.Bar)
}

func TestClassify(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name     string
		body     ClassifyRequest
		status   int
		category itb.Category
		score    float64
	}{
		{"mild pad", ClassifyRequest{ArmSystolic: "120", AnkleSystolic: "108"}, http.StatusOK, itb.CategoryMildPAD, 0.90},
		{"normal", ClassifyRequest{ArmSystolic: "120", AnkleSystolic: "132"}, http.StatusOK, itb.CategoryNormal, 1.10},
		{"zero arm", ClassifyRequest{ArmSystolic: "0", AnkleSystolic: "108"}, http.StatusUnprocessableEntity, "", 0},
		{"empty ankle", ClassifyRequest{ArmSystolic: "120"}, http.StatusUnprocessableEntity, "", 0},
		{"letters", ClassifyRequest{ArmSystolic: "12a", AnkleSystolic: "108"}, http.StatusBadRequest, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/v1/classify", tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			out := decode[ClassifyResponse](t, resp)
			assert.Equal(t, tt.category, out.Category)
			assert.Equal(t, tt.score, out.Score)
			assert.False(t, out.Fallback)
			assert.NotEmpty(t, out.Label)
		})
	}
}

func TestClassify_ScoreInGapFallsBack(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, score := range []float64{0.905, 0.995, 1.405} {
		score := score
		resp := postJSON(t, srv.URL+"/api/v1/classify", ClassifyRequest{Score: &score})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		out := decode[ClassifyResponse](t, resp)
		assert.True(t, out.Fallback, "score %v", score)
		assert.Equal(t, score, out.Score)
		assert.Equal(t, itb.CategoryNormal, out.Category)
		assert.Equal(t, "Valor fora do padrão", out.Message)
	}
}

func TestClassify_ScoreInsideBand(t *testing.T) {
	srv := newTestServer(t, nil)
	score := 0.95

	resp := postJSON(t, srv.URL+"/api/v1/classify", ClassifyRequest{Score: &score})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[ClassifyResponse](t, resp)
	assert.False(t, out.Fallback)
	assert.Equal(t, itb.CategoryBorderline, out.Category)
}

func TestExplain_Disabled(t *testing.T) {
	srv := newTestServer(t, nil)
	score := 1.1
	resp := postJSON(t, srv.URL+"/api/v1/explain", ExplainRequest{Score: &score})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("## O que significa\nSeu ITB está **normal**."))
	srv := newTestServer(t, mock)
	score := 1.1

	resp := postJSON(t, srv.URL+"/api/v1/explain", ExplainRequest{Score: &score, Age: "70"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[ExplainResponse](t, resp)
	assert.False(t, out.Fallback)
	assert.Contains(t, out.Markdown, "## O que significa")
	assert.Contains(t, out.HTML, "<h2>O que significa</h2>")
	assert.Contains(t, out.HTML, "<strong>normal</strong>")

	req, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Contains(t, req.Messages[0].Content, "1.1")
	assert.Contains(t, req.Messages[0].Content, "70")
}

func TestExplain_ProviderErrorFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")})
	srv := newTestServer(t, mock)
	score := 0.8

	resp := postJSON(t, srv.URL+"/api/v1/explain", ExplainRequest{Score: &score})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[ExplainResponse](t, resp)
	assert.True(t, out.Fallback)
	assert.True(t, out.Retryable)
	assert.Equal(t, sess.ExplainFallback, out.Markdown)
}

func TestExplain_RateLimitSetsRetryAfter(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{RetryAfter: 1500 * time.Millisecond, Err: errors.New("429")}})
	srv := newTestServer(t, mock)
	score := 1.2

	resp := postJSON(t, srv.URL+"/api/v1/explain", ExplainRequest{Score: &score})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("Retry-After"))

	out := decode[ExplainResponse](t, resp)
	assert.True(t, out.Fallback)
	assert.True(t, out.Retryable)
}

func TestExplain_MissingScore(t *testing.T) {
	srv := newTestServer(t, llm.NewMockProvider())
	resp := postJSON(t, srv.URL+"/api/v1/explain", map[string]string{"age": "50"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScan_JSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"armSystolic":120,"ankleSystolic":108}`))
	srv := newTestServer(t, mock)

	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	resp := postJSON(t, srv.URL+"/api/v1/scan", ScanRequest{Image: image})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[ScanResponse](t, resp)
	require.NotNil(t, out.ArmSystolic)
	require.NotNil(t, out.AnkleSystolic)
	assert.Equal(t, 120, *out.ArmSystolic)
	require.NotNil(t, out.Result)
	assert.Equal(t, itb.CategoryMildPAD, out.Result.Category)

	req, ok := mock.LastRequest()
	require.True(t, ok)
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, "image/png", req.Messages[0].Images[0].MIMEType)
}

func TestScan_Multipart(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"armSystolic":null,"ankleSystolic":115}`))
	srv := newTestServer(t, mock)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "nota.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/api/v1/scan", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[ScanResponse](t, resp)
	assert.Nil(t, out.ArmSystolic)
	require.NotNil(t, out.AnkleSystolic)
	assert.Equal(t, 115, *out.AnkleSystolic)
	assert.Nil(t, out.Result)
}

func TestScan_UnreadableAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("não consegui ler"))
	srv := newTestServer(t, mock)

	image := base64.StdEncoding.EncodeToString(pngBytes)
	resp := postJSON(t, srv.URL+"/api/v1/scan", ScanRequest{Image: image})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, sess.ScanFallback, body["error"])
	assert.Equal(t, false, body["retryable"])
}

func TestScan_OversizeBodyIsRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := llm.NewMockProvider()
	h := New(Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Advisor: advisor.New(mock, advisor.DefaultConfig()),
	}).Handler()

	body := `{"image":"` + strings.Repeat("A", maxScanBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, 0, mock.CallCount())
}

func TestScan_BadImage(t *testing.T) {
	srv := newTestServer(t, llm.NewMockProvider())

	resp, err := http.Post(srv.URL+"/api/v1/scan", "application/json", strings.NewReader(`{"image":"%%%"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
