package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"trustseal/internal/config"
	"trustseal/internal/payment"
	"trustseal/internal/service"
)

// docsPage renders swagger-ui from a CDN against the served OpenAPI spec.
const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: request parsing, service call, error translation.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.NotaryService, caps config.Capabilities, environment string) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(docsPage)
	})

	app.Get("/health", HealthCheck(db, caps, environment))
	app.Get("/healthz", LivenessProbe())

	app.Post("/notarize", NotarizeDocument(svc))
	app.Get("/verify/:hash", VerifyDocument(svc))

	app.Post("/create-payment-session", CreatePaymentSession(svc))
	app.Get("/verify-payment/:sessionId", VerifyPayment(svc))
	app.Post("/stripe-webhook", StripeWebhook(svc))
}

// HealthCheck reports service health and the startup capability snapshot.
// When the record store is configured it also pings the database.
func HealthCheck(db *sql.DB, caps config.Capabilities, environment string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":       "healthy",
			"service":      "trustseal-notary",
			"environment":  environment,
			"capabilities": caps,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// LivenessProbe is a bare liveness check with no dependency calls.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// NotarizeDocument handles multipart document uploads (field name: document).
// Optional form fields: name (display name), paymentSessionId.
func NotarizeDocument(svc service.NotaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("document")
		if err != nil {
			// Missing upload, not an empty file: an attached zero-byte file
			// still reaches the service as valid content.
			return writeError(c, fiber.StatusBadRequest, "NO_DOCUMENT", "document file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "DOCUMENT_OPEN_ERROR", "cannot open uploaded document")
		}
		defer f.Close()

		name := c.FormValue("name")
		if name == "" {
			name = fh.Filename
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		meta := service.FileMeta{Name: name, Size: fh.Size, ContentType: ct}

		res, err := svc.Notarize(c.UserContext(), f, meta, c.FormValue("paymentSessionId"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoDocument):
				return writeError(c, fiber.StatusBadRequest, "NO_DOCUMENT", "document file is required")
			case errors.Is(err, service.ErrPaymentRequired):
				return writeErrorDetails(c, fiber.StatusPaymentRequired, "PAYMENT_REQUIRED", "payment required before notarization", err.Error())
			default:
				return writeErrorDetails(c, fiber.StatusInternalServerError, "NOTARIZATION_FAILED", "notarization failed", err.Error())
			}
		}

		body := fiber.Map{
			"success":       true,
			"documentHash":  res.Fingerprint,
			"transactionId": res.TransactionID,
			"record":        res.Record,
		}
		if res.DemoMode {
			body["demoMode"] = true
			body["message"] = "Demo mode - configure environment variables for full functionality"
		}
		return c.JSON(body)
	}
}

// VerifyDocument verifies a fingerprint against the record store and ledger.
// Both not-found cases surface as a generic 404 "not verified" per the error
// policy; details stay in the error field for diagnostics.
func VerifyDocument(svc service.NotaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Verify(c.UserContext(), c.Params("hash"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"verified": false,
				"error":    err.Error(),
			})
		}
		return c.JSON(res)
	}
}

// createSessionRequest is the body of POST /create-payment-session.
type createSessionRequest struct {
	FileName string `json:"fileName"`
}

// CreatePaymentSession opens a checkout session for a pending notarization.
func CreatePaymentSession(svc service.NotaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSessionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		s, err := svc.CreatePaymentSession(c.UserContext(), req.FileName)
		if err != nil {
			return writeErrorDetails(c, fiber.StatusInternalServerError, "SESSION_CREATE_FAILED", "could not create payment session", err.Error())
		}

		body := fiber.Map{
			"success":     true,
			"sessionId":   s.ID,
			"redirectUrl": s.URL,
		}
		if s.DemoMode {
			body["demoMode"] = true
		}
		return c.JSON(body)
	}
}

// VerifyPayment reports the current paid status of a checkout session.
func VerifyPayment(svc service.NotaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := svc.VerifyPayment(c.UserContext(), c.Params("sessionId"))
		if err != nil {
			if errors.Is(err, payment.ErrSessionNotFound) {
				return writeError(c, fiber.StatusNotFound, "SESSION_NOT_FOUND", "payment session not found")
			}
			return writeErrorDetails(c, fiber.StatusInternalServerError, "PAYMENT_VERIFICATION_FAILED", "could not verify payment", err.Error())
		}
		return c.JSON(fiber.Map{
			"verified":      s.Paid(),
			"amount":        s.Amount,
			"currency":      s.Currency,
			"paymentStatus": s.Status,
		})
	}
}

// StripeWebhook receives provider event deliveries. The raw body and the
// Stripe-Signature header go to the gateway for verification.
func StripeWebhook(svc service.NotaryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, err := svc.ConfirmPayment(c.Body(), c.Get("Stripe-Signature"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIGNATURE", "webhook verification failed")
		}
		return c.JSON(fiber.Map{"received": true})
	}
}
