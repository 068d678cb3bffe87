package statusweb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fpc-server/internal/peer"
	"fpc-server/internal/registry"
)

func TestHandlerReportsBucketSizes(t *testing.T) {
	reg := registry.New()
	for i := 0; i < 3; i++ {
		p := peer.New(fmt.Sprintf("addr-%d", i), time.Now())
		reg.TryInsert(p)
		p.WithState(func(_ peer.State, set func(peer.State)) { set(peer.State{Kind: peer.Idle}) })
		reg.MoveToBucket(peer.Idle, p)
	}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	Handler(reg)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	var got Status
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Idle != 3 {
		t.Fatalf("got Idle=%d, want 3", got.Idle)
	}
}

func TestHandlerRejectsNonGet(t *testing.T) {
	reg := registry.New()
	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	rec := httptest.NewRecorder()
	Handler(reg)(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got status %d, want 405", rec.Code)
	}
}
