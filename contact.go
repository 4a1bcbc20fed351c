package secblog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const resendEndpoint = "https://api.resend.com/emails"

// Submissions faster than this are treated as bot traffic.
const minFillTime = 3 * time.Second

var reEmail = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// ContactRelay sends contact-form messages through the Resend API with a
// single outbound HTTP call.
type ContactRelay struct {
	apiKey    string
	recipient string
	endpoint  string
	client    *http.Client
}

// NewContactRelay creates a relay. An empty apiKey disables sending; the
// contact endpoint then reports the service as unconfigured.
func NewContactRelay(apiKey, recipient string) *ContactRelay {
	return &ContactRelay{
		apiKey:    apiKey,
		recipient: recipient,
		endpoint:  resendEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Send relays one message. The sender's address goes into reply_to so the
// recipient can answer directly.
func (r *ContactRelay) Send(name, email, message string) error {
	if r.apiKey == "" || r.recipient == "" {
		return fmt.Errorf("email service is not configured")
	}
	payload := map[string]any{
		"from":     "Contact Form <onboarding@resend.dev>",
		"to":       []string{r.recipient},
		"reply_to": email,
		"subject":  "New Contact Form Message from " + name,
		"html": "<h2>New message from your website contact form</h2>" +
			"<p><strong>Name:</strong> " + html.EscapeString(name) + "</p>" +
			"<p><strong>Email:</strong> " + html.EscapeString(email) + "</p>" +
			"<p><strong>Message:</strong></p>" +
			"<p>" + html.EscapeString(message) + "</p>",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("failed to send email: %s", strings.TrimSpace(string(detail)))
	}
	return nil
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	// Honeypot field, hidden from real users. Any value means a bot.
	Website string `json:"website"`
	// Unix millis recorded when the form was rendered.
	StartedAt int64 `json:"startedAt"`
}

func (a *App) corsMiddleware() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	})
}

// handleContact validates and relays a contact-form submission. Validation
// failures answer 400 with a field message; spam (honeypot or a sub-3s
// fill time) gets a deliberately vague error and nothing is sent.
func (a *App) handleContact(c echo.Context) error {
	if c.Request().Method == http.MethodOptions {
		return c.NoContent(http.StatusNoContent)
	}
	if !a.contactLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error": true, "message": "Too many messages. Try again later.",
		})
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	switch {
	case req.Name == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "Name is required"})
	case req.Email == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "Email is required"})
	case !reEmail.MatchString(req.Email):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "Invalid email address"})
	case req.Message == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": true, "message": "Message is required"})
	}

	elapsed := time.Since(time.UnixMilli(req.StartedAt))
	if req.Website != "" || req.StartedAt <= 0 || elapsed < minFillTime {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": true, "message": "Something went wrong. Please try again later.",
		})
	}

	if err := a.contactRelay.Send(req.Name, req.Email, req.Message); err != nil {
		c.Logger().Errorf("contact relay: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": true, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "message": "Message sent successfully! I'll get back to you soon.",
	})
}
