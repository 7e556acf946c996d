package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/oguzk/propmatch/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1/users/me"

// MailboxService is the Gmail REST adapter: it fetches unread threads,
// replies on them, marks them read and sends standalone notifications.
// It is a thin wrapper; all workflow decisions live in the services
// that consume it.
type MailboxService struct {
	httpClient *http.Client
	baseURL    string
}

// NewMailboxService creates a Gmail client from the configured OAuth
// refresh token
func NewMailboxService() *MailboxService {
	oauthConfig := &oauth2.Config{
		ClientID:     config.AppConfig.Gmail.ClientID,
		ClientSecret: config.AppConfig.Gmail.ClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.modify"},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: config.AppConfig.Gmail.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour),
	}

	return &MailboxService{
		httpClient: oauthConfig.Client(context.Background(), token),
		baseURL:    gmailBaseURL,
	}
}

type gmailHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type gmailBody struct {
	Data string `json:"data"`
}

type gmailPart struct {
	MimeType string        `json:"mimeType"`
	Headers  []gmailHeader `json:"headers"`
	Body     gmailBody     `json:"body"`
	Parts    []gmailPart   `json:"parts"`
}

type gmailMessage struct {
	ID      string    `json:"id"`
	Payload gmailPart `json:"payload"`
}

type gmailThread struct {
	ID       string         `json:"id"`
	Messages []gmailMessage `json:"messages"`
}

type gmailThreadList struct {
	Threads []struct {
		ID string `json:"id"`
	} `json:"threads"`
}

// NextUnread fetches the oldest unread thread, nil when there is none
func (s *MailboxService) NextUnread() (Thread, error) {
	var list gmailThreadList
	query := url.Values{"q": {"is:unread"}, "maxResults": {"1"}}
	if err := s.get("/threads?"+query.Encode(), &list); err != nil {
		return nil, fmt.Errorf("failed to list unread threads: %w", err)
	}
	if len(list.Threads) == 0 {
		return nil, nil
	}

	var thread gmailThread
	if err := s.get("/threads/"+list.Threads[0].ID+"?format=full", &thread); err != nil {
		return nil, fmt.Errorf("failed to fetch thread %s: %w", list.Threads[0].ID, err)
	}
	if len(thread.Messages) == 0 {
		return nil, fmt.Errorf("thread %s has no messages", thread.ID)
	}

	bodies := make([]string, 0, len(thread.Messages))
	for _, message := range thread.Messages {
		bodies = append(bodies, plainTextBody(message.Payload))
	}

	last := thread.Messages[len(thread.Messages)-1]

	return &mailThread{
		service:   s,
		id:        thread.ID,
		sender:    headerValue(last.Payload.Headers, "From"),
		subject:   headerValue(last.Payload.Headers, "Subject"),
		messageID: headerValue(last.Payload.Headers, "Message-ID"),
		bodies:    bodies,
	}, nil
}

// Send sends a standalone notification email
func (s *MailboxService) Send(to, subject, body string) error {
	return s.sendRaw(to, subject, body, "", "")
}

func (s *MailboxService) sendRaw(to, subject, body, inReplyTo, threadID string) error {
	headers := []string{
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
	}
	if inReplyTo != "" {
		headers = append(headers, "In-Reply-To: "+inReplyTo, "References: "+inReplyTo)
	}
	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	payload := map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(raw)),
	}
	if threadID != "" {
		payload["threadId"] = threadID
	}

	return s.post("/messages/send", payload, nil)
}

func (s *MailboxService) markThreadRead(threadID string) error {
	payload := map[string][]string{"removeLabelIds": {"UNREAD"}}
	return s.post("/threads/"+threadID+"/modify", payload, nil)
}

func (s *MailboxService) get(path string, out interface{}) error {
	resp, err := s.httpClient.Get(s.baseURL + path)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (s *MailboxService) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Post(s.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Gmail API returned status: %d", resp.StatusCode)
	}
	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// plainTextBody walks a message payload for its text/plain part
func plainTextBody(payload gmailPart) string {
	if strings.HasPrefix(payload.MimeType, "text/plain") && payload.Body.Data != "" {
		return decodeBase64URL(payload.Body.Data)
	}
	for _, part := range payload.Parts {
		if body := plainTextBody(part); body != "" {
			return body
		}
	}
	if payload.Body.Data != "" {
		return decodeBase64URL(payload.Body.Data)
	}
	return ""
}

func decodeBase64URL(data string) string {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

func headerValue(headers []gmailHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

// mailThread is one unread Gmail conversation
type mailThread struct {
	service   *MailboxService
	id        string
	sender    string
	subject   string
	messageID string
	bodies    []string
}

// Sender returns the From header of the latest message
func (t *mailThread) Sender() string {
	return t.sender
}

// Conversation joins all message bodies oldest to newest
func (t *mailThread) Conversation() string {
	return strings.Join(t.bodies, "\n---\n")
}

// Reply answers the latest message on the same thread
func (t *mailThread) Reply(body string) error {
	subject := t.subject
	if subject != "" && !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}
	return t.service.sendRaw(models.NormalizeEmail(t.sender), subject, body, t.messageID, t.id)
}

// MarkRead marks the whole thread as read
func (t *mailThread) MarkRead() error {
	return t.service.markThreadRead(t.id)
}
