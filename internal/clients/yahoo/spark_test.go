package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
)

func sparkEntry(symbol string, close float64) string {
	return fmt.Sprintf(`{"symbol":%q,"response":[{"meta":{"symbol":%q,"exchangeTimezoneName":"America/New_York"},"timestamp":[1704205800],"indicators":{"quote":[{"close":[%v]}]}}]}`,
		symbol, symbol, close)
}

func TestFetchBarsBatch_ChunksAndMaps(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v7/finance/spark" {
			t.Errorf("path = %s", r.URL.Path)
		}
		symbols := strings.Split(r.URL.Query().Get("symbols"), ",")
		var entries []string
		for _, s := range symbols {
			if s == "GONE" {
				continue
			}
			entries = append(entries, sparkEntry(s, 100))
		}
		fmt.Fprintf(w, `{"spark":{"result":[%s],"error":null}}`, strings.Join(entries, ","))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithBatchSize(2))
	client.now = func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) }
	batch := client.Batch()

	window := models.Window{From: common.MustParseDate("2023-12-01"), To: common.MustParseDate("2024-01-05")}
	got, err := batch.FetchBarsBatch(context.Background(), []string{"AAPL", "MSFT", "GONE", "PEP", "META"}, window)
	if err != nil {
		t.Fatalf("FetchBarsBatch failed: %v", err)
	}

	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 chunked calls, got %d", n)
	}
	if len(got) != 4 {
		t.Errorf("expected 4 symbols, got %d", len(got))
	}
	if _, ok := got["GONE"]; ok {
		t.Error("GONE should be absent")
	}
	if got["AAPL"].Source != "yahoo_batch" {
		t.Errorf("source = %q", got["AAPL"].Source)
	}
	if batch.Name() != "yahoo_batch" {
		t.Errorf("name = %q", batch.Name())
	}
}

func TestFetchBarsBatch_AllChunksFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Batch().FetchBarsBatch(context.Background(), []string{"AAPL"}, models.Window{})
	if err == nil {
		t.Fatal("expected error when every chunk fails")
	}
}

func TestFetchBarsBatch_SkipsWindowsBeyondFiveYears(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprintf(w, `{"spark":{"result":[%s],"error":null}}`, sparkEntry("AAPL", 100))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	client.now = func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }

	old := models.Window{From: common.MustParseDate("2018-12-01"), To: common.MustParseDate("2019-01-06")}
	got, err := client.Batch().FetchBarsBatch(context.Background(), []string{"AAPL"}, old)
	if err != nil {
		t.Fatalf("FetchBarsBatch failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d series, want none so the chart tier serves them", len(got))
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("spark called %d times for a range=max window", n)
	}

	recent := models.Window{From: common.MustParseDate("2025-12-01"), To: common.MustParseDate("2026-01-06")}
	got, err = client.Batch().FetchBarsBatch(context.Background(), []string{"AAPL"}, recent)
	if err != nil || got["AAPL"] == nil {
		t.Fatalf("recent window: got %v, err %v", got, err)
	}
}
