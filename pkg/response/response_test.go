package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOKPage_TotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
		wantSize int
	}{
		{0, 20, 0, 20},
		{1, 20, 1, 20},
		{40, 20, 2, 20},
		{41, 20, 3, 20},
		{5, 0, 1, 20},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		OKPage(c, []string{}, tt.total, 1, tt.pageSize)

		var body struct {
			Data PageData `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body.Data.Pagination.TotalPages != tt.want || body.Data.Pagination.PageSize != tt.wantSize {
			t.Errorf("total=%d size=%d: got %+v", tt.total, tt.pageSize, body.Data.Pagination)
		}
	}
}

func TestError_CarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-1")

	NotFound(c, 20009, "课表条目不存在")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var resp Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != 20009 || resp.RequestID != "rid-1" {
		t.Errorf("unexpected body: %+v", resp)
	}
}
