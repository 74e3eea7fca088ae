package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stocktrail/stocktrail/internal/access"
	auditdomain "github.com/stocktrail/stocktrail/internal/audit/domain"
	auditrepo "github.com/stocktrail/stocktrail/internal/audit/repository"
	auditservice "github.com/stocktrail/stocktrail/internal/audit/service"
	"github.com/stocktrail/stocktrail/internal/clock"
	"github.com/stocktrail/stocktrail/internal/config"
	"github.com/stocktrail/stocktrail/internal/lookup"
	lookupdomain "github.com/stocktrail/stocktrail/internal/lookup/domain"
	orderdomain "github.com/stocktrail/stocktrail/internal/order/domain"
	orderrepo "github.com/stocktrail/stocktrail/internal/order/repository"
	orderservice "github.com/stocktrail/stocktrail/internal/order/service"
	tokendomain "github.com/stocktrail/stocktrail/internal/token/domain"
	tokenrepo "github.com/stocktrail/stocktrail/internal/token/repository"
	tokenservice "github.com/stocktrail/stocktrail/internal/token/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testOwnerKey = "owner-secret"

var testDBSeq atomic.Int64

type testEnv struct {
	srv *Server
	db  *gorm.DB
	clk *clock.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:server%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&orderdomain.Order{},
		&lookupdomain.Lookup{},
		&tokendomain.Token{},
		&auditdomain.AuditRecord{},
	))

	require.NoError(t, db.Create(&[]lookupdomain.Lookup{
		{Type: lookupdomain.TypeStatus, Value: "Open"},
		{Type: lookupdomain.TypeStatus, Value: "Shipped"},
		{Type: lookupdomain.TypeStatus, Value: "Invoiced"},
	}).Error)
	require.NoError(t, db.Create(&orderdomain.Order{
		OrderID:   "SO-1001",
		Warehouse: "WH-A",
		Status:    "Open",
		OrderDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}).Error)

	cfg := config.Config{
		OwnerKey: testOwnerKey,
		BaseURL:  "https://dash.example.com",
	}
	log := zap.NewNop()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	holder := &config.DashboardConfigHolder{}

	vocab := lookup.NewVocabulary(lookup.VocabularyParams{
		Log:    log,
		Repo:   lookup.NewRepository(db),
		Holder: holder,
	})
	tokenSvc := tokenservice.New(tokenservice.Params{
		Cfg:   cfg,
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  tokenrepo.Provide(),
	})
	orderSvc := orderservice.New(orderservice.Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Clock:      clk,
		Holder:     holder,
		Repo:       orderrepo.Provide(),
		AuditRepo:  auditrepo.Provide(),
		Vocabulary: vocab,
	})
	auditSvc := auditservice.New(auditservice.Params{
		DB:   db,
		Log:  log,
		Repo: auditrepo.Provide(),
	})
	resolver := access.NewResolver(access.ResolverParams{
		Cfg:    cfg,
		Log:    log,
		Tokens: tokenSvc,
	})

	engine := NewEngine(NewHTTPMetrics(prometheus.NewRegistry()))
	srv := NewServer(ServerParams{
		Gin:        engine,
		Cfg:        cfg,
		Log:        log,
		Resolver:   resolver,
		OrderSvc:   orderSvc,
		TokenSvc:   tokenSvc,
		AuditSvc:   auditSvc,
		Vocabulary: vocab,
	})

	return &testEnv{srv: srv, db: db, clk: clk}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(w, req)
	return w
}

func (e *testEnv) issueToken(t *testing.T, role string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/tokens?admin="+testOwnerKey,
		fmt.Sprintf(`{"role":%q,"company":"Acme","expiry_amount":1,"expiry_unit":"days"}`, role))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccessDenied(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		"/api/orders",
		"/api/orders?admin=wrong-key",
		"/api/orders?token=ffffffff",
	} {
		w := env.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
		assert.Contains(t, w.Body.String(), "access_denied")
	}
}

func TestListOrdersAsOwner(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/orders?admin="+testOwnerKey, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []orderdomain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "SO-1001", resp.Data[0].OrderID)
}

func TestTokenRoundtripThroughAPI(t *testing.T) {
	env := newTestEnv(t)
	token := env.issueToken(t, "viewer")

	w := env.do(t, http.MethodGet, "/api/orders?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/statuses?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shipped")
}

func TestViewerCannotMutate(t *testing.T) {
	env := newTestEnv(t)
	token := env.issueToken(t, "viewer")

	w := env.do(t, http.MethodPost, "/api/orders/SO-1001?token="+token, `{"status":"Shipped"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission_denied")

	w = env.do(t, http.MethodGet, "/api/audit-logs?token="+token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEditorUpdateFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.issueToken(t, "editor")

	w := env.do(t, http.MethodPost, "/api/orders/SO-1001?token="+token, `{"status":"Shipped","invoice_no":"INV-9"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data auditdomain.AuditRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Open", resp.Data.FromStatus)
	assert.Equal(t, "Shipped", resp.Data.ToStatus)
	assert.Equal(t, "editor", resp.Data.User)

	w = env.do(t, http.MethodGet, "/api/audit-logs?token="+token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SO-1001")
}

func TestUpdateValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/orders/SO-1001?admin="+testOwnerKey, `{"status":"Teleported"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_status")

	w = env.do(t, http.MethodPost, "/api/orders/SO-1001?admin="+testOwnerKey, `{"status":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/orders/SO-MISSING?admin="+testOwnerKey, `{"status":"Shipped"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenIssuanceIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.issueToken(t, "editor")

	w := env.do(t, http.MethodPost, "/api/tokens?token="+token,
		`{"role":"viewer","company":"Acme","expiry_amount":1,"expiry_unit":"days"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIssueTokenValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tokens?admin="+testOwnerKey,
		`{"role":"owner","company":"Acme","expiry_amount":1,"expiry_unit":"days"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_role")

	w = env.do(t, http.MethodPost, "/api/tokens?admin="+testOwnerKey,
		`{"role":"viewer","company":"","expiry_amount":1,"expiry_unit":"days"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/tokens?admin="+testOwnerKey,
		`{"role":"viewer","company":"Acme","expiry_amount":0,"expiry_unit":"days"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogCSVExport(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/orders/SO-1001?admin="+testOwnerKey, `{"status":"Invoiced","invoice_no":"INV-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/audit-logs?admin="+testOwnerKey+"&format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Timestamp,User,Warehouse,OrderID,FromStatus,ToStatus,FromInvoice,ToInvoice", lines[0])
	assert.Contains(t, lines[1], "SO-1001")
	assert.Contains(t, lines[1], "Invoiced")
}

func TestKPIEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/orders/kpis?admin="+testOwnerKey, "")
	require.Equal(t, http.StatusOK, w.Code)

	var report orderdomain.KPIReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Open)
	assert.Equal(t, 0, report.Invoiced)
}

func TestWarehousesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/warehouses?admin="+testOwnerKey, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "WH-A")
}

func TestCredentialHeaders(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(HeaderOwnerKey, testOwnerKey)
	w := httptest.NewRecorder()
	env.srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
