package neo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	apierrors "neo-trader/internal/errors"
	"neo-trader/internal/models"
	"neo-trader/internal/session"
	"neo-trader/internal/transport"
	"neo-trader/pkg/utils"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Options{
		ConsumerKey: "test-consumer-key",
		Environment: session.EnvProd,
		Transport: transport.Config{
			Retry: utils.RetryConfig{MaxAttempts: 1, InitialDelay: 1, MaxDelay: 1, BackoffFactor: 1},
		},
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

// authorize puts the client in the trading-session state with the trading
// host pointed at the test server.
func authorize(client *Client, serverURL string) {
	client.Session().SetViewSession("view-token", "view-sid")
	client.Session().SetTradingSession(session.TradingTokens{
		Token:    "edit-token",
		SID:      "edit-sid",
		RID:      "edit-rid",
		ServerID: "server99",
		BaseURL:  serverURL,
	})
}

func TestDecodeInvalidJSONIsSoftFailure(t *testing.T) {
	resp := &transport.Response{StatusCode: 200, Body: []byte("<html>gateway error</html>")}
	res := decode(resp)
	if res.Error != msgUnexpectedFormat {
		t.Errorf("Error = %q, want the unexpected-format message", res.Error)
	}
	if res.OK() {
		t.Error("undecodable body reported OK")
	}
	if res.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want preserved 200", res.StatusCode)
	}
}

func TestDecodeValidJSON(t *testing.T) {
	resp := &transport.Response{StatusCode: 201, Body: []byte(`{"data":{"token":"abc"}}`)}
	res := decode(resp)
	if res.Failed() {
		t.Fatalf("unexpected soft failure: %s", res.Error)
	}
	if dataField(res.Data, "token") != "abc" {
		t.Errorf("data.token = %q", dataField(res.Data, "token"))
	}
}

func TestOrderRequiresTradingSession(t *testing.T) {
	client := newTestClient(t)

	_, err := client.PlaceOrder(context.Background(), models.OrderParams{})
	if !apierrors.Is(err, apierrors.ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}

	// Step 1 alone is not enough for trading calls
	client.Session().SetViewSession("view-token", "view-sid")
	_, err = client.Positions(context.Background())
	if !apierrors.Is(err, apierrors.ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}
}

func TestValidateRequiresViewSession(t *testing.T) {
	client := newTestClient(t)
	_, err := client.TOTPValidate(context.Background(), "123456")
	if !apierrors.Is(err, apierrors.ErrViewSessionRequired) {
		t.Fatalf("error = %v, want ErrViewSessionRequired", err)
	}
	_, err = client.Session2FA(context.Background(), "9999")
	if !apierrors.Is(err, apierrors.ErrViewSessionRequired) {
		t.Fatalf("error = %v, want ErrViewSessionRequired", err)
	}
}

func TestPlaceOrderWire(t *testing.T) {
	var (
		gotPath  string
		gotSID   string
		gotAuth  string
		gotJData string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSID = r.URL.Query().Get("sId")
		gotAuth = r.Header.Get("Auth")
		r.ParseForm()
		gotJData = r.PostForm.Get("jData")
		w.Write([]byte(`{"stat":"Ok","nOrdNo":"220203000000001"}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	authorize(client, server.URL)

	res, err := client.PlaceOrder(context.Background(), models.OrderParams{
		ExchangeSegment: "nse_cm",
		TradingSymbol:   "RELIANCE-EQ",
		TransactionType: models.TransactionBuy,
		ProductCode:     models.ProductCNC,
		PriceType:       models.PriceTypeMarket,
		Quantity:        "1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}

	if gotPath != "/Orders/2.0/quick/order/rule/ms/place" {
		t.Errorf("path = %q", gotPath)
	}
	if gotSID != "server99" {
		t.Errorf("sId = %q, want server99", gotSID)
	}
	if gotAuth != "edit-token" {
		t.Errorf("Auth = %q, want edit-token", gotAuth)
	}

	var sent map[string]string
	if err := json.Unmarshal([]byte(gotJData), &sent); err != nil {
		t.Fatalf("jData not JSON: %v", err)
	}
	if sent["ts"] != "RELIANCE-EQ" || sent["tt"] != "B" || sent["pt"] != "MKT" {
		t.Errorf("jData = %v", sent)
	}
	// Defaults are filled before serialization
	if sent["am"] != "NO" || sent["rt"] != "DAY" || sent["pf"] != "N" {
		t.Errorf("jData defaults = %v", sent)
	}
}

func TestOrderReportUsesGET(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"stat":"Ok","data":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	authorize(client, server.URL)

	res, err := client.OrderReport(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s, want GET", gotMethod)
	}
}

func TestHoldingsUsesJSONContentTypeWithoutServerID(t *testing.T) {
	var gotCT, gotSID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotSID = r.URL.Query().Get("sId")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	authorize(client, server.URL)

	if _, err := client.Holdings(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}
	if gotSID != "" {
		t.Errorf("sId = %q, want empty", gotSID)
	}
}

func TestLimitsDefaultsToAll(t *testing.T) {
	var gotJData string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotJData = r.PostForm.Get("jData")
		w.Write([]byte(`{"Net":100000}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	authorize(client, server.URL)

	if _, err := client.Limits(context.Background(), models.LimitsParams{}); err != nil {
		t.Fatal(err)
	}

	var sent map[string]string
	if err := json.Unmarshal([]byte(gotJData), &sent); err != nil {
		t.Fatal(err)
	}
	if sent["seg"] != "ALL" || sent["exch"] != "ALL" || sent["prod"] != "ALL" {
		t.Errorf("limits jData = %v", sent)
	}
}

func TestNon2xxPassedThroughUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"stat":"Not_Ok","errMsg":"Invalid order"}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	authorize(client, server.URL)

	res, err := client.CancelOrder(context.Background(), models.CancelOrderParams{OrderNo: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("non-2xx treated as soft failure: %s", res.Error)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", res.StatusCode)
	}
	if res.Data["errMsg"] != "Invalid order" {
		t.Errorf("body not passed through: %v", res.Data)
	}
}

func TestQuotesRejectsEmptyInstruments(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Quotes(context.Background(), nil, models.QuoteTypeAll)
	var ve *apierrors.ValidationError
	if !apierrors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestScripMasterUnknownSegmentNoNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := newTestClient(t)
	authorize(client, server.URL)

	res, err := client.ScripMaster(context.Background(), "nasdaq")
	if err != nil {
		t.Fatal(err)
	}
	if res.Error != msgSegmentNotFound {
		t.Errorf("Error = %q, want segment-not-found message", res.Error)
	}
	if calls != 0 {
		t.Errorf("server received %d calls, want 0", calls)
	}
}

func TestScripMasterFiltersFilePaths(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"filesPaths": []string{
					"https://files.example/masters/nse_cm-v1.csv",
					"https://files.example/masters/nse_fo-v1.csv",
					"https://files.example/masters/mcx_fo-v1.csv",
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t)
	authorize(client, server.URL)

	// Alias resolves to the canonical token before matching
	res, err := client.ScripMaster(context.Background(), "nfo")
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("soft failure: %s", res.Error)
	}
	if res.Data["filePath"] != "https://files.example/masters/nse_fo-v1.csv" {
		t.Errorf("filePath = %v", res.Data["filePath"])
	}

	// Known segment with no matching file is a soft failure
	res, err = client.ScripMaster(context.Background(), "bse_fo")
	if err != nil {
		t.Fatal(err)
	}
	if res.Error != msgSegmentNotFound {
		t.Errorf("Error = %q, want segment-not-found message", res.Error)
	}
}

func TestScripMasterEmptySegmentReturnsFullPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"filesPaths":["a","b"],"baseFolder":"masters"}}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	authorize(client, server.URL)

	res, err := client.ScripMaster(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("soft failure: %s", res.Error)
	}
	if len(dataList(res.Data, "filesPaths")) != 2 {
		t.Errorf("full payload not returned: %v", res.Data)
	}
}

func TestScripFileReturnsRawBytes(t *testing.T) {
	csv := "pSymbol,pTrdSymbol\n11536,TCS-EQ\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	}))
	defer server.Close()

	client := newTestClient(t)
	data, err := client.ScripFile(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != csv {
		t.Errorf("body = %q", data)
	}
}

func TestStoreTradingSessionMapsFields(t *testing.T) {
	client := newTestClient(t)
	client.Session().SetViewSession("view-token", "view-sid")

	res := decode(&transport.Response{StatusCode: 200, Body: []byte(`{
		"data": {
			"token": "edit-token",
			"sid": "edit-sid",
			"rid": "edit-rid",
			"hsServerId": "server11",
			"dataCenter": "adc",
			"baseUrl": "https://cluster-a.kotaksecurities.com"
		}
	}`)})
	client.storeTradingSession(res)

	trading := client.Session().Trading()
	if trading.Token != "edit-token" || trading.SID != "edit-sid" || trading.RID != "edit-rid" {
		t.Errorf("tokens = %+v", trading)
	}
	if trading.ServerID != "server11" || trading.DataCenter != "adc" {
		t.Errorf("server fields = %+v", trading)
	}
	if trading.BaseURL != "https://cluster-a.kotaksecurities.com" {
		t.Errorf("BaseURL = %q", trading.BaseURL)
	}
	if client.Session().State() != session.StateTradingSession {
		t.Errorf("state = %v", client.Session().State())
	}
}

func TestStoreViewSessionOnlyOn2xx(t *testing.T) {
	client := newTestClient(t)

	// Non-2xx fires no transition even with token fields present
	res := decode(&transport.Response{StatusCode: 401, Body: []byte(`{"data":{"token":"t","sid":"s"}}`)})
	client.storeViewSession(res)
	if client.Session().State() != session.StateUnauthenticated {
		t.Fatalf("state after non-2xx = %v", client.Session().State())
	}

	// Undecodable body fires no transition
	client.storeViewSession(decode(&transport.Response{StatusCode: 200, Body: []byte("<html>")}))
	if client.Session().State() != session.StateUnauthenticated {
		t.Fatalf("state after bad body = %v", client.Session().State())
	}

	res = decode(&transport.Response{StatusCode: 200, Body: []byte(`{"data":{"token":"view-t","sid":"view-s"}}`)})
	client.storeViewSession(res)
	if client.Session().ViewToken() != "view-t" || client.Session().SID() != "view-s" {
		t.Errorf("view tokens = %q/%q", client.Session().ViewToken(), client.Session().SID())
	}
	if client.Session().State() != session.StateViewSession {
		t.Errorf("state = %v", client.Session().State())
	}
}
