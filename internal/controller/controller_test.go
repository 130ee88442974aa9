package controller

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/internal/pkg/serverutils"
	internalWS "rmf-policy-be/internal/websocket"
	"rmf-policy-be/pkg/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatService struct {
	reply     stream.Reply
	err       error
	lastUser  string
	lastInput string
}

func (f *fakeChatService) HandleMessage(_ context.Context, userID, content string) (stream.Reply, error) {
	f.lastUser = userID
	f.lastInput = content
	return f.reply, f.err
}

func (f *fakeChatService) Checklist(_ context.Context, userID string) (string, error) {
	f.lastUser = userID
	return "checklist for " + userID, f.err
}

func newTestApp(svc *fakeChatService) *fiber.App {
	log := logger.NewNopLogger()
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	NewHealthController().RegisterRoutes(app)

	api := app.Group("/api")
	identity := serverutils.IdentityMiddleware("")
	NewChatController(svc, internalWS.NewHub(nil, log), 0, log).RegisterRoutes(api, identity)
	NewPolicyController(svc).RegisterRoutes(api, identity)
	return app
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestChatController_StreamsReply(t *testing.T) {
	svc := &fakeChatService{reply: stream.Reply{Text: "**Question**: Who is accountable?", SampleAnswer: "The CRO."}}
	app := newTestApp(svc)

	req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(`{"content":"  build policy "}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "alice")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	body := readAll(t, resp)
	assert.Equal(t, "**Question**: Who is accountable? \n[VALID_ANSWER]The CRO.[/VALID_ANSWER]\n", body)
	assert.Equal(t, "alice", svc.lastUser)
	assert.Equal(t, "build policy", svc.lastInput)
}

func TestChatController_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
	}{
		{"missing content", `{}`, nil, 400},
		{"malformed json", `{"content":`, nil, 400},
		{"service failure", `{"content":"hello"}`, errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeChatService{err: tt.svcErr})
			req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func TestChatController_EmptyContentReachesService(t *testing.T) {
	svc := &fakeChatService{reply: stream.Reply{Text: "**Error**: Please provide a meaningful answer.", SampleAnswer: "The CRO."}}
	app := newTestApp(svc)

	req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(`{"content":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "", svc.lastInput)
	body := readAll(t, resp)
	assert.Contains(t, body, "Please provide a meaningful answer.")
	assert.Contains(t, body, "[VALID_ANSWER]The CRO.[/VALID_ANSWER]")
}

func TestChatController_SocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(&fakeChatService{})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/chat/v1/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestPolicyController_Checklist(t *testing.T) {
	svc := &fakeChatService{}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/policy/v1/checklist", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, readAll(t, resp), "checklist for default_user")
}

func multipartBody(t *testing.T, policyMD string, logo []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if policyMD != "" {
		require.NoError(t, w.WriteField("policy_md", policyMD))
	}
	if logo != nil {
		fw, err := w.CreateFormFile("logo", "logo.png")
		require.NoError(t, err)
		_, err = fw.Write(logo)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestPolicyController_DownloadPDF(t *testing.T) {
	policy := "## GOVERN 1.1: Legal requirements\n\nWe track AI regulation.\n\n- Quarterly review\n"

	tests := []struct {
		name     string
		policyMD string
		logo     []byte
		wantCode int
	}{
		{"without logo", policy, nil, 200},
		{"with png logo", policy, tinyPNG(t), 200},
		{"jpeg-ish logo", policy, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 400},
		{"missing markdown", "", nil, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeChatService{})
			body, contentType := multipartBody(t, tt.policyMD, tt.logo)
			req := httptest.NewRequest("POST", "/api/policy/v1/pdf", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req, 10_000)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantCode == 200 {
				assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
				assert.Contains(t, resp.Header.Get("Content-Disposition"), "policy.pdf")
				assert.True(t, strings.HasPrefix(readAll(t, resp), "%PDF"))
			}
		})
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeChatService{})
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, readAll(t, resp))
}
