package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// Reject malformed inputs before they reach the ledger.
func TestValidationBadInputs(t *testing.T) {
	env := newTestApp(t, nil)
	before := env.reg.Len()

	cases := []struct {
		name  string
		path  string
		form  url.Values
		field string
	}{
		{"bad date", "/farmer/batches", url.Values{
			"product_name": {"Kale"}, "origin_location": {"Farm"}, "harvest_date": {"30/01/2024"}, "base_price": {"1.00"},
		}, "harvest_date"},
		{"negative price", "/farmer/batches", url.Values{
			"product_name": {"Kale"}, "origin_location": {"Farm"}, "harvest_date": {"2024-01-30"}, "base_price": {"-1"},
		}, "base_price"},
		{"markup in name", "/farmer/batches", url.Values{
			"product_name": {"<b>Kale</b>"}, "origin_location": {"Farm"}, "harvest_date": {"2024-01-30"}, "base_price": {"1"},
		}, "product_name"},
		{"unknown status", "/distributor/batches/LET-2024-001/events", url.Values{
			"status": {"TELEPORTED"}, "location": {"Somewhere"},
		}, "status"},
		{"missing location", "/distributor/batches/LET-2024-001/events", url.Values{
			"status": {"AT_WAREHOUSE"},
		}, "location"},
		{"bad price", "/retailer/batches/TOM-2024-002/ready", url.Values{"price": {"1.999"}}, "price"},
		{"bad scan", "/distributor/scan", url.Values{"code": {"<script>"}}, "code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp *http.Response
			entries := captureLogs(t, func() {
				resp = env.postForm(t, tc.path, tc.form)
			})
			if resp.StatusCode != http.StatusBadRequest {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("expected 400, got %d body=%s", resp.StatusCode, body)
			}
			e, ok := findEntry(entries, "validation.fail")
			if !ok {
				t.Fatalf("validation.fail not logged")
			}
			if e.Level != "warn" || e.Fields["field"] != tc.field {
				t.Fatalf("unexpected entry %+v", e)
			}
		})
	}

	if env.reg.Len() != before {
		t.Fatalf("rejected forms must not register batches")
	}
	b, err := env.reg.Get("LET-2024-001")
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Events) != 3 {
		t.Fatalf("rejected updates must not append events, have %d", len(b.Events))
	}

	resp, err := env.app.Test(httptest.NewRequest("GET", "/consumer?q=%3Cscript%3E", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad lookup expected 400, got %d", resp.StatusCode)
	}
}

func TestFormWithoutCSRFIsRejected(t *testing.T) {
	env := newTestApp(t, nil)
	form := strings.NewReader("product_name=Kale&origin_location=Farm&harvest_date=2024-01-30&base_price=1")
	req := httptest.NewRequest("POST", "/farmer/batches", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if _, err := env.reg.Find("KAL-2024-001"); err == nil {
		t.Fatalf("batch registered without a CSRF token")
	}
}
