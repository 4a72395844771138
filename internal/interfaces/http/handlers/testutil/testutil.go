// Package testutil builds gin contexts for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"coursegate/internal/domain/entitlement"
	"coursegate/internal/shared/constants"
	"coursegate/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext creates a gin.Context for method and path. A []byte body is sent
// verbatim; anything else non-nil is JSON-encoded.
func NewTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case []byte:
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBytes, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBytes))
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// SetViewer simulates the viewer middleware.
func SetViewer(c *gin.Context, viewer entitlement.Viewer) {
	c.Set(constants.ContextKeyViewer, viewer)
	c.Set(constants.ContextKeyUserID, viewer.ID)
}

func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// DecodeResponse unmarshals the envelope and, when out is non-nil, its data field.
func DecodeResponse(w *httptest.ResponseRecorder, out interface{}) (*utils.APIResponse, error) {
	var raw struct {
		utils.APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		return nil, err
	}
	if out != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, out); err != nil {
			return nil, err
		}
	}
	return &raw.APIResponse, nil
}
