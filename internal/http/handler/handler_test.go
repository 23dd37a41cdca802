package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trustseal/internal/config"
	"trustseal/internal/ledger"
	"trustseal/internal/model"
	"trustseal/internal/payment"
	"trustseal/internal/service"
	serviceMocks "trustseal/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testHash = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func multipartDocument(t *testing.T, fieldValues map[string]string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if content != nil {
		part, err := writer.CreateFormFile("document", "test.txt")
		require.NoError(t, err)
		part.Write(content)
	}
	for k, v := range fieldValues {
		writer.WriteField(k, v)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	caps := config.Capabilities{Ledger: config.Configured, Store: config.Configured}

	t.Run("healthy with configured store", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		app := fiber.New()
		app.Get("/health", HealthCheck(db, caps, "test"))

		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "test", body["environment"])
		capsBody := body["capabilities"].(map[string]any)
		assert.Equal(t, "configured", capsBody["ledger"])
	})

	t.Run("unhealthy when db ping fails", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		app := fiber.New()
		app.Get("/health", HealthCheck(db, caps, "test"))

		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})

	t.Run("demo mode has no db to ping", func(t *testing.T) {
		demoCaps := config.Capabilities{Ledger: config.Demo, Store: config.Demo}
		app := fiber.New()
		app.Get("/health", HealthCheck(nil, demoCaps, "development"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		capsBody := body["capabilities"].(map[string]any)
		assert.Equal(t, "demo", capsBody["ledger"])
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotarizeDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockNotaryService)
	app := fiber.New()
	app.Post("/notarize", NotarizeDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartDocument(t, map[string]string{"name": "My Contract"}, []byte("hello world"))

		mockSvc.On("Notarize", mock.Anything, mock.Anything,
			service.FileMeta{Name: "My Contract", Size: 11, ContentType: "application/octet-stream"}, "").
			Return(&service.NotarizeResult{
				Fingerprint:   testHash,
				TransactionID: "0xabc123",
				Record:        &model.NotaryRecord{ID: "rec-id", DocumentHash: testHash},
			}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/notarize", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, true, result["success"])
		assert.Equal(t, testHash, result["documentHash"])
		assert.Equal(t, "0xabc123", result["transactionId"])
		assert.NotContains(t, result, "demoMode")
		mockSvc.AssertExpectations(t)
	})

	t.Run("demo mode is flagged", func(t *testing.T) {
		body, ct := multipartDocument(t, nil, []byte("hello"))

		mockSvc.On("Notarize", mock.Anything, mock.Anything, mock.Anything, "").
			Return(&service.NotarizeResult{
				Fingerprint:   testHash,
				TransactionID: "demo_tx_abc123def",
				Record:        &model.NotaryRecord{ID: "rec-id"},
				DemoMode:      true,
			}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/notarize", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, true, result["demoMode"])
		assert.Equal(t, "demo_tx_abc123def", result["transactionId"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("no document field", func(t *testing.T) {
		body, ct := multipartDocument(t, map[string]string{"name": "x"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/notarize", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NO_DOCUMENT", res.Error.Code)
	})

	t.Run("payment required", func(t *testing.T) {
		body, ct := multipartDocument(t, nil, []byte("hello"))

		mockSvc.On("Notarize", mock.Anything, mock.Anything, mock.Anything, "").
			Return(nil, service.ErrPaymentRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/notarize", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "PAYMENT_REQUIRED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("workflow failure carries details", func(t *testing.T) {
		body, ct := multipartDocument(t, nil, []byte("hello"))

		mockSvc.On("Notarize", mock.Anything, mock.Anything, mock.Anything, "").
			Return(nil, errors.New("submit attestation: ledger rejected transaction")).Once()

		req := httptest.NewRequest(http.MethodPost, "/notarize", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOTARIZATION_FAILED", res.Error.Code)
		assert.Contains(t, res.Error.Details, "ledger rejected")
		mockSvc.AssertExpectations(t)
	})

	t.Run("payment session id is forwarded", func(t *testing.T) {
		body, ct := multipartDocument(t, map[string]string{"paymentSessionId": "cs_test_1"}, []byte("hello"))

		mockSvc.On("Notarize", mock.Anything, mock.Anything, mock.Anything, "cs_test_1").
			Return(&service.NotarizeResult{Record: &model.NotaryRecord{}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/notarize", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestVerifyDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockNotaryService)
	app := fiber.New()
	app.Get("/verify/:hash", VerifyDocument(mockSvc))

	t.Run("verified", func(t *testing.T) {
		blockTime := time.Unix(1700000000, 0).UTC()
		mockSvc.On("Verify", mock.Anything, testHash).
			Return(&service.VerifyResult{
				Verified:    true,
				Timestamp:   blockTime,
				Record:      &model.NotaryRecord{DocumentHash: testHash, LedgerTxID: "0xtx"},
				Transaction: ledger.TxMeta{ID: "0xtx", Exists: true, BlockTimestamp: blockTime},
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/verify/"+testHash, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, true, result["verified"])
		assert.NotNil(t, result["record"])
		assert.NotNil(t, result["ledgerTransaction"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Verify", mock.Anything, "deadbeef").
			Return(nil, service.ErrRecordNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/verify/deadbeef", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, false, result["verified"])
		assert.Contains(t, result["error"], "record not found")
		mockSvc.AssertExpectations(t)
	})
}

func TestCreatePaymentSession(t *testing.T) {
	mockSvc := new(serviceMocks.MockNotaryService)
	app := fiber.New()
	app.Post("/create-payment-session", CreatePaymentSession(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("CreatePaymentSession", mock.Anything, "contract.pdf").
			Return(&payment.Session{ID: "cs_1", URL: "https://checkout.example/cs_1"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/create-payment-session",
			bytes.NewReader([]byte(`{"fileName":"contract.pdf"}`)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, true, result["success"])
		assert.Equal(t, "cs_1", result["sessionId"])
		assert.Equal(t, "https://checkout.example/cs_1", result["redirectUrl"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("demo session is flagged", func(t *testing.T) {
		mockSvc.On("CreatePaymentSession", mock.Anything, "a.txt").
			Return(&payment.Session{ID: "demo_session_ab12cd34e", DemoMode: true}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/create-payment-session",
			bytes.NewReader([]byte(`{"fileName":"a.txt"}`)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, true, result["demoMode"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/create-payment-session",
			bytes.NewReader([]byte(`{not-json`)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestVerifyPayment(t *testing.T) {
	mockSvc := new(serviceMocks.MockNotaryService)
	app := fiber.New()
	app.Get("/verify-payment/:sessionId", VerifyPayment(mockSvc))

	t.Run("paid", func(t *testing.T) {
		mockSvc.On("VerifyPayment", mock.Anything, "cs_1").
			Return(&payment.Session{ID: "cs_1", Amount: 500, Currency: "usd", Status: payment.Paid}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/verify-payment/cs_1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, true, result["verified"])
		assert.Equal(t, float64(500), result["amount"])
		assert.Equal(t, "usd", result["currency"])
		assert.Equal(t, "paid", result["paymentStatus"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("unpaid", func(t *testing.T) {
		mockSvc.On("VerifyPayment", mock.Anything, "cs_2").
			Return(&payment.Session{ID: "cs_2", Status: "unpaid"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/verify-payment/cs_2", nil)
		resp, _ := app.Test(req)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, false, result["verified"])
		assert.Equal(t, "unpaid", result["paymentStatus"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("VerifyPayment", mock.Anything, "cs_missing").
			Return(nil, payment.ErrSessionNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/verify-payment/cs_missing", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "SESSION_NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestStripeWebhook(t *testing.T) {
	mockSvc := new(serviceMocks.MockNotaryService)
	app := fiber.New()
	app.Post("/stripe-webhook", StripeWebhook(mockSvc))

	t.Run("received", func(t *testing.T) {
		mockSvc.On("ConfirmPayment", []byte(`{"type":"checkout.session.completed"}`), "sig-header").
			Return("cs_1", true, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook",
			bytes.NewReader([]byte(`{"type":"checkout.session.completed"}`)))
		req.Header.Set("Stripe-Signature", "sig-header")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, true, result["received"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("bad signature", func(t *testing.T) {
		mockSvc.On("ConfirmPayment", mock.Anything, "bad").
			Return("", false, errors.New("verify webhook signature: mismatch")).Once()

		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Stripe-Signature", "bad")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_SIGNATURE", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockNotaryService)
	RegisterRoutes(app, nil, mockSvc, config.Capabilities{}, "test")

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("docs page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/docs", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "swagger-ui")
		assert.Contains(t, string(body), "/openapi.yaml")
	})
}
