package leads

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dendrix-ai/dendrix-web/internal/variants"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type conversionRecorder struct {
	events []variants.Event
}

func (r *conversionRecorder) Notify(event variants.Event) {
	r.events = append(r.events, event)
}

func setupTestRouter(repo *mockLeadsRepository, notifier variants.Notifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	svc := variants.NewService(nil, variants.WithNotifier(notifier))
	session := variants.SessionMiddleware(svc, variants.NewMemoryStore(0), variants.SessionCookie{})

	r.Use(func(c *gin.Context) {
		c.Set("locale", "en")
		c.Next()
	})
	NewHandler(NewService(repo, nil, "")).RegisterRoutes(r, session)
	return r
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return response
}

func TestHandler_CreateLead_RecordsConversion(t *testing.T) {
	repo := new(mockLeadsRepository)
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(nil)
	notifier := &conversionRecorder{}
	r := setupTestRouter(repo, notifier)

	req := validRequest()
	req.ContentKey = "program:ai-basics:title"
	req.VariantName = "B"
	w := postJSON(r, "/api/v1/leads", req)

	require.Equal(t, http.StatusCreated, w.Code)
	data := parseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, "Thank you, Mari Maasikas! We will be in touch shortly.", data["message"])

	require.Len(t, notifier.events, 1)
	assert.Equal(t, variants.EventConversion, notifier.events[0].Type)
	assert.Equal(t, "B", notifier.events[0].VariantName)
}

func TestHandler_CreateLead_ValidationErrors(t *testing.T) {
	r := setupTestRouter(new(mockLeadsRepository), variants.NoopNotifier{})

	w := postJSON(r, "/api/v1/leads", map[string]interface{}{"name": "M", "email": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errInfo := parseResponse(w)["error"].(map[string]interface{})
	assert.Equal(t, "Please agree to the processing of your data.", errInfo["message"])
	fields := errInfo["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
}

func TestHandler_CreateLead_MalformedBody(t *testing.T) {
	r := setupTestRouter(new(mockLeadsRepository), variants.NoopNotifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
