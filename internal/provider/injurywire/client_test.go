package injurywire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fortuna/vantage/internal/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithoutRenderFallback())
}

func TestTeamInjuriesBareArray(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"player": "Luka Doncic", "team": "Dallas Mavericks", "status": "Questionable", "injury": "Calf", "expected_return": "2025-11-10"},
			{"player": "", "team": "Dallas Mavericks", "status": "Out"}
		]`))
	})

	reports, err := client.TeamInjuries(context.Background(), "basketball", "Dallas Mavericks")
	if err != nil {
		t.Fatalf("TeamInjuries: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected the nameless entry dropped, got %d reports", len(reports))
	}
	if reports[0].Player != "Luka Doncic" || reports[0].Type != "Calf" {
		t.Errorf("unexpected report: %+v", reports[0])
	}
}

func TestTeamInjuriesWrappedWithDriftedFields(t *testing.T) {
	// Same feed, different snapshot: wrapper object and renamed fields.
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"injuries": [
			{"player_name": "Kyrie Irving", "team_name": "Dallas Mavericks", "designation": "Out", "injury_type": "Knee", "return_date": "Jan 5, 2026"}
		]}`))
	})

	reports, err := client.TeamInjuries(context.Background(), "basketball", "Dallas Mavericks")
	if err != nil {
		t.Fatalf("TeamInjuries: %v", err)
	}
	if len(reports) != 1 || reports[0].Player != "Kyrie Irving" || reports[0].Status != "Out" {
		t.Fatalf("unexpected reports: %+v", reports)
	}
}

func TestTeamInjuriesHTMLWithoutFallbackErrors(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Checking your browser</body></html>`))
	})

	_, err := client.TeamInjuries(context.Background(), "basketball", "Dallas Mavericks")
	if err == nil {
		t.Fatal("expected error when feed serves HTML and rendering is off")
	}
}

func TestAllocatorSharedAcrossGoroutines(t *testing.T) {
	// The client is shared by several adapters; concurrent fallbacks must
	// start exactly one browser allocator.
	client := NewClient()
	defer client.Close()

	start := make(chan struct{})
	ctxs := make([]context.Context, 8)
	var wg sync.WaitGroup
	for i := range ctxs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			ctxs[i] = client.allocator()
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 1; i < len(ctxs); i++ {
		if ctxs[i] != ctxs[0] {
			t.Fatalf("goroutine %d got a different allocator", i)
		}
	}
	if client.allocCancel == nil {
		t.Fatal("allocator cancel not recorded")
	}
}

func TestCloseResetsAllocator(t *testing.T) {
	client := NewClient()
	first := client.allocator()
	client.Close()
	if client.allocCtx != nil || client.allocCancel != nil {
		t.Fatal("Close should release the allocator")
	}
	if second := client.allocator(); second == first {
		t.Fatal("allocator after Close should be a fresh one")
	}
	client.Close()
}

func TestParseInjuryHTML(t *testing.T) {
	html := `<html><body>
		<table class="injury-report"><tbody>
			<tr><td>Luka Doncic</td><td>Dallas Mavericks</td><td>GTD</td><td>Calf</td><td>Left calf tightness</td><td>Nov 10</td></tr>
			<tr><td></td><td>Dallas Mavericks</td><td>Out</td></tr>
			<tr><td>Short row</td></tr>
		</tbody></table>
	</body></html>`

	reports, err := parseInjuryHTML(html)
	if err != nil {
		t.Fatalf("parseInjuryHTML: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Status != "GTD" || reports[0].Return != "Nov 10" {
		t.Errorf("unexpected report: %+v", reports[0])
	}
}

func TestParseStatusDesignations(t *testing.T) {
	tests := []struct {
		raw  string
		want model.InjuryStatus
	}{
		{"Out", model.InjuryOut},
		{"IR", model.InjuryOut},
		{"  doubtful ", model.InjuryDoubtful},
		{"GTD", model.InjuryQuestionable},
		{"probable", model.InjuryProbable},
		{"Day To Day", model.InjuryDayToDay},
		{"listed as maybe", model.InjuryQuestionable},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := parseStatus(tt.raw); got != tt.want {
				t.Errorf("parseStatus(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseReturn(t *testing.T) {
	if got := parseReturn("2025-11-10"); got == nil || got.Format("2006-01-02") != "2025-11-10" {
		t.Errorf("ISO date parse failed: %v", got)
	}
	if got := parseReturn("TBD"); got != nil {
		t.Errorf("TBD should parse to nil, got %v", got)
	}
	if got := parseReturn(""); got != nil {
		t.Errorf("empty should parse to nil, got %v", got)
	}
	if got := parseReturn("Nov 10"); got == nil || got.Year() != time.Now().Year() {
		t.Errorf("yearless date should assume current year: %v", got)
	}
}

func TestParseReports(t *testing.T) {
	injuries := ParseReports([]Report{
		{Player: "Luka Doncic", Team: "Dallas Mavericks", Status: "Q", Type: "Calf", Return: "2025-11-10"},
	})
	if len(injuries) != 1 {
		t.Fatalf("expected 1 injury, got %d", len(injuries))
	}
	inj := injuries[0]
	if inj.Status != model.InjuryQuestionable || inj.Provider != ProviderName {
		t.Errorf("unexpected injury: %+v", inj)
	}
	if inj.ExpectedReturn == nil {
		t.Error("expected return date parsed")
	}
}
