package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
	"wegetchat/auth"
	"wegetchat/infrastructure/httpapi"
	"wegetchat/moderation"
	"wegetchat/repositories"
	"wegetchat/runtime"
	"wegetchat/runtime/workers"
	"wegetchat/services"
	"wegetchat/sink"
	"wegetchat/storage"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config  Config
	BaseURL string

	server *httptest.Server
	cancel context.CancelFunc
}

// SetupSuite loads the environment configuration and starts a local stack when no address is given
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.APIAddr != "" {
		s.BaseURL = s.Config.APIAddr
		return
	}
	s.BaseURL = s.startLocalStack()
}

func (s *BaseHTTPSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *BaseHTTPSuite) startLocalStack() string {
	req := s.Require()
	dir := s.T().TempDir()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	store, err := repositories.NewFileSnapshotStore(filepath.Join(dir, "db.json"), log)
	req.NoError(err)
	initial, err := store.Load()
	req.NoError(err)

	fanout := workers.NewEventFanout(log, 64, time.Second, sink.NewLogSink(log))
	coordinator := runtime.NewCoordinator(log, store, initial, fanout)
	moderator, err := moderation.NewModerator([]string{"badword"}, '*', log)
	req.NoError(err)
	messenger := services.NewMessengerService(log, coordinator, auth.NewArgon2Hasher(1024, 1), moderator, services.Options{})
	uploads, err := storage.NewAttachmentStore(log, filepath.Join(dir, "uploads"), 1<<20)
	req.NoError(err)
	server := httpapi.NewServer(log, messenger, auth.NewTokenIssuer("e2e-secret", time.Hour), uploads,
		httpapi.Config{MaxUploadBytes: 1 << 20})

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	sup := workers.NewSupervisor(log, 50*time.Millisecond)
	sup.Add(fanout)
	go sup.Run(ctx)

	s.server = httptest.NewServer(server.Router())
	return s.server.URL
}

// Step prints a colorized header for a scenario step
func (s *BaseHTTPSuite) Step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// Client is one browser session: it keeps its own cookie jar.
type Client struct {
	suite *BaseHTTPSuite
	http  *http.Client
}

func (s *BaseHTTPSuite) NewClient() *Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &Client{suite: s, http: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

// JSON sends body as JSON and decodes the response into out when out is not nil.
func (c *Client) JSON(t *testing.T, method, path string, body any, out any) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		c.suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	r, err := http.NewRequest(method, c.suite.BaseURL+path, reader)
	c.suite.Require().NoError(err)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return c.do(t, r, out)
}

// Multipart sends fields plus one optional file under fileField.
func (c *Client) Multipart(t *testing.T, method, path string, fields map[string]string,
	fileField, fileName string, content []byte, out any) int {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		c.suite.Require().NoError(mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		c.suite.Require().NoError(err)
		_, err = fw.Write(content)
		c.suite.Require().NoError(err)
	}
	c.suite.Require().NoError(mw.Close())

	r, err := http.NewRequest(method, c.suite.BaseURL+path, &buf)
	c.suite.Require().NoError(err)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(t, r, out)
}

// Get downloads a raw resource.
func (c *Client) Get(t *testing.T, path string) (int, []byte) {
	resp, err := c.http.Get(c.suite.BaseURL + path)
	c.suite.Require().NoError(err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	c.suite.Require().NoError(err)
	return resp.StatusCode, data
}

func (c *Client) do(t *testing.T, r *http.Request, out any) int {
	resp, err := c.http.Do(r)
	c.suite.Require().NoError(err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.suite.Require().NoError(err)
	if c.suite.Config.DebugJSON {
		t.Logf("%s %s -> %d\n%s", r.Method, r.URL.Path, resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		c.suite.Require().NoError(json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}
