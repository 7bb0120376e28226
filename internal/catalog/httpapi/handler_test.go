package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/gateway"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	created  models.ProductCreate
	updated  models.ProductUpdate
	gotID    string
	product  *models.Product
	sell     *models.SellResponse
	err      error
	sellSeen bool
}

func (f *fakeProducts) Create(ctx context.Context, in models.ProductCreate) (*models.Product, error) {
	f.created = in
	return f.product, f.err
}

func (f *fakeProducts) List(ctx context.Context) ([]*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Product{f.product}, nil
}

func (f *fakeProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	f.gotID = id
	return f.product, f.err
}

func (f *fakeProducts) Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	f.gotID, f.updated = id, upd
	return f.product, f.err
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	f.gotID = id
	return f.err
}

func (f *fakeProducts) Sell(ctx context.Context, id string) (*models.SellResponse, error) {
	f.gotID, f.sellSeen = id, true
	return f.sell, f.err
}

// tokenVerifier accepts "admin-token" and "user-token".
type tokenVerifier struct{ calls int }

func (v *tokenVerifier) Verify(ctx context.Context, token string) (*gateway.Claims, error) {
	v.calls++
	switch token {
	case "admin-token":
		return &gateway.Claims{UserID: "u1", Role: common.RoleAdmin}, nil
	case "user-token":
		return &gateway.Claims{UserID: "u2", Role: common.RoleUser}, nil
	}
	return nil, errors.New("rejected")
}

func newServer(f *fakeProducts, ping func(context.Context) error) (*echo.Echo, *tokenVerifier) {
	v := &tokenVerifier{}
	e := httpx.New(logging.Discard())
	NewHandler(f, gateway.New(v, time.Second, logging.Discard()), ping).Register(e)
	return e, v
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func widget() *models.Product {
	d, c := "A widget", "Tools"
	return &models.Product{ID: "p1", Name: "Widget", Keywords: []string{"blue"}, Stock: 5, Price: 10, Description: &d, Category: &c, Active: true}
}

func TestCreate_RequiresAdmin(t *testing.T) {
	f := &fakeProducts{product: widget()}
	e, v := newServer(f, nil)
	body := `{"name":"Widget","keywords":["blue","small"],"stock":5,"price":10}`

	rec := do(e, http.MethodPost, "/products", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, 0, v.calls)

	rec = do(e, http.MethodPost, "/products", body, "user-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, "/products", body, "bad-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/products", body, "admin-token")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.ProductCreate{Name: "Widget", Keywords: []string{"blue", "small"}, Stock: 5, Price: 10}, f.created)

	var got models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "p1", got.ID)
}

func TestCreate_BadBody(t *testing.T) {
	e, _ := newServer(&fakeProducts{}, nil)
	rec := do(e, http.MethodPost, "/products", `{"name":`, "admin-token")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreate_UpstreamIsBadGateway(t *testing.T) {
	e, _ := newServer(&fakeProducts{err: common.ErrUpstream}, nil)
	rec := do(e, http.MethodPost, "/products", `{"name":"Widget","keywords":["x"],"stock":1}`, "admin-token")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPublicReads(t *testing.T) {
	f := &fakeProducts{product: widget()}
	e, v := newServer(f, nil)

	rec := do(e, http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	rec = do(e, http.MethodGet, "/products/p1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", f.gotID)
	assert.Equal(t, 0, v.calls)

	f.err = common.ErrorNotFound
	rec = do(e, http.MethodGet, "/products/p9", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate_PartialBody(t *testing.T) {
	f := &fakeProducts{product: widget()}
	e, _ := newServer(f, nil)

	rec := do(e, http.MethodPut, "/products/p1", `{"keywords":["red"],"active":false}`, "admin-token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", f.gotID)
	require.NotNil(t, f.updated.Keywords)
	assert.Equal(t, []string{"red"}, *f.updated.Keywords)
	require.NotNil(t, f.updated.Active)
	assert.False(t, *f.updated.Active)
	assert.Nil(t, f.updated.Name)
	assert.Nil(t, f.updated.Description)
}

func TestDelete(t *testing.T) {
	f := &fakeProducts{}
	e, _ := newServer(f, nil)

	rec := do(e, http.MethodDelete, "/products/p1", "", "admin-token")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(e, http.MethodDelete, "/products/p1", "", "user-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSell_OptionalAuth(t *testing.T) {
	f := &fakeProducts{sell: &models.SellResponse{ID: "p1", Name: "Widget", Stock: 9, LowStockAlertSent: true}}
	e, _ := newServer(f, nil)

	for _, token := range []string{"", "user-token", "bad-token"} {
		rec := do(e, http.MethodPost, "/products/p1/sell", "", token)
		require.Equal(t, http.StatusOK, rec.Code, token)
		assert.JSONEq(t, `{"id":"p1","name":"Widget","stock":9,"low_stock_alert_sent":true}`, rec.Body.String())
	}

	f.err = common.ErrInsufficientStock
	rec := do(e, http.MethodPost, "/products/p1/sell", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"insufficient stock"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	e, _ := newServer(&fakeProducts{}, func(context.Context) error { return errors.New("down") })
	rec := do(e, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body httpx.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "catalog", body.Service)
}
