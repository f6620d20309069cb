package bed

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dripwatch/dripwatch/internal/domain/drip"
)

func deviceRequest(t *testing.T, handler echo.HandlerFunc, method, body, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/beds-ext/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestUpdateWeights_ClassifiesReading(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	b := seedBed(t, svc, "L01", drip.StatusEmAndamento)

	rec := deviceRequest(t, h.UpdateWeights, http.MethodPut,
		`{"initial_weight_g": 500, "current_weight_g": 100}`, b.ID.String())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Bed
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.DripStatus != drip.StatusAlerta {
		t.Errorf("status = %s, want alerta", got.DripStatus)
	}
}

func TestUpdateWeights_RequiresBothWeights(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	b := seedBed(t, svc, "L02", drip.StatusEmAndamento)

	for _, body := range []string{
		`{}`,
		`{"initial_weight_g": 500}`,
		`{"current_weight_g": 100}`,
	} {
		rec := deviceRequest(t, h.UpdateWeights, http.MethodPut, body, b.ID.String())
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestUpdateWeights_RejectsNegativeWeights(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	b := seedBed(t, svc, "L03", drip.StatusEmAndamento)

	rec := deviceRequest(t, h.UpdateWeights, http.MethodPut,
		`{"initial_weight_g": -1, "current_weight_g": 100}`, b.ID.String())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateWeights_UnknownBedReturns404(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	rec := deviceRequest(t, h.UpdateWeights, http.MethodPut,
		`{"initial_weight_g": 500, "current_weight_g": 100}`, "0b2d7f68-3a81-4c59-9e9f-0d9f0f0c0a01")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateWeights_StorageFailureReturns500(t *testing.T) {
	svc, repo, _ := newTestService()
	h := NewHandler(svc)
	b := seedBed(t, svc, "L04", drip.StatusEmAndamento)

	repo.telemetryErr = errors.New("connection reset")
	rec := deviceRequest(t, h.UpdateWeights, http.MethodPut,
		`{"initial_weight_g": 500, "current_weight_g": 100}`, b.ID.String())
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
