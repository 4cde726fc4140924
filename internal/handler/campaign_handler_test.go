package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/guillaumedeshayes/twilio-messaging-controler/internal/errors"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/handler"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/service"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/twilio"
)

// --- Mocks ---

type mockCampaignRepo struct {
	created []*model.Campaign
}

func (m *mockCampaignRepo) Create(c *model.Campaign) error {
	c.ID = len(m.created) + 1
	m.created = append(m.created, c)
	return nil
}

func (m *mockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	return nil, appErrors.NewCampaignNotFound(id)
}

func (m *mockCampaignRepo) ListByBrands(brandIDs []int) ([]*model.Campaign, error) {
	return []*model.Campaign{}, nil
}

type mockBrandRepo struct{}

func (m *mockBrandRepo) GetByID(id int) (*model.Brand, error) {
	return &model.Brand{ID: id, Name: "Cafe Lumiere"}, nil
}

type mockCustomerRepo struct{}

func (m *mockCustomerRepo) GetByID(id int) (*model.Customer, error) { return nil, nil }
func (m *mockCustomerRepo) GetByIDs(ids []int) (map[int]model.Customer, error) {
	return map[int]model.Customer{}, nil
}

type mockMessageRepo struct {
	mu       sync.Mutex
	messages []model.OutboundMessage
	statuses []string
}

func (m *mockMessageRepo) Create(msg *model.OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = len(m.messages) + 1
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockMessageRepo) FindBySid(campaignID, customerID int, sid string) (*model.OutboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.messages {
		msg := m.messages[i]
		if msg.CampaignID == campaignID && msg.CustomerID == customerID && msg.Sid == sid {
			return &msg, nil
		}
	}
	return nil, appErrors.NewMessageNotFound(campaignID, customerID, sid)
}

func (m *mockMessageRepo) ListByCampaign(campaignID int) ([]model.OutboundMessage, error) {
	return nil, nil
}

func (m *mockMessageRepo) UpdateStatus(id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockMessageRepo) SetStatusAndPrice(id int, status string, price, priceUnit *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Price = price
		}
	}
	return nil
}

type mockMessenger struct {
	mu   sync.Mutex
	sids int
}

func (m *mockMessenger) SendMessage(to, from, body, statusCallback string) (*twilio.MessageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sids++
	return &twilio.MessageResult{Sid: fmt.Sprintf("SM%04d", m.sids), Status: "queued"}, nil
}

func (m *mockMessenger) FetchMessage(sid string) (*twilio.MessageResult, error) {
	price := "-0.0075"
	return &twilio.MessageResult{Sid: sid, Status: "delivered", Price: &price}, nil
}

func newRouter(messages *mockMessageRepo) chi.Router {
	svc := &service.CampaignService{
		Campaigns:       &mockCampaignRepo{},
		Brands:          &mockBrandRepo{},
		Customers:       &mockCustomerRepo{},
		Messages:        messages,
		Messenger:       &mockMessenger{},
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		SendConcurrency: 2,
	}
	h := &handler.CampaignHandler{Service: svc}

	r := chi.NewRouter()
	r.Post("/sms/campaigns/{brandID}", h.Create)
	r.Get("/sms/campaigns", h.List)
	r.Post("/sms/twilio/status-callback/{campaignID}/{customerID}", h.StatusCallback)
	return r
}

// --- Tests ---

func TestCreateCampaignHandler(t *testing.T) {
	messages := &mockMessageRepo{}
	router := newRouter(messages)

	payload := map[string]any{
		"campaign": map[string]string{
			"name":   "Spring promo",
			"body":   "Hi {{first_name}}!",
			"sender": "+33757590404",
		},
		"recipients": []map[string]any{
			{"id": 1, "phone": "+33611111111", "fields": map[string]string{"first_name": "Ana"}},
			{"id": 2, "phone": "+33622222222", "fields": map[string]string{"first_name": "Bo"}},
		},
	}
	b, _ := json.Marshal(payload)

	req := httptest.NewRequest("POST", "/sms/campaigns/5", bytes.NewReader(b))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Message  string `json:"message"`
		Campaign struct {
			ID       int          `json:"id"`
			Brand    *model.Brand `json:"brand"`
			Messages []struct {
				Body string `json:"body"`
			} `json:"sms_messages"`
		} `json:"campaign"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Campaign.Brand == nil || res.Campaign.Brand.ID != 5 {
		t.Error("expected brand in response")
	}
	if len(res.Campaign.Messages) != 2 {
		t.Fatalf("expected 2 messages in response, got %d", len(res.Campaign.Messages))
	}
	if len(messages.messages) != 2 {
		t.Errorf("expected 2 persisted messages, got %d", len(messages.messages))
	}
	bodies := []string{res.Campaign.Messages[0].Body, res.Campaign.Messages[1].Body}
	if bodies[0] == bodies[1] {
		t.Errorf("expected personalized bodies, got %v", bodies)
	}
}

func TestCreateCampaignHandlerRejectsEmptyBody(t *testing.T) {
	router := newRouter(&mockMessageRepo{})

	b, _ := json.Marshal(map[string]any{"campaign": map[string]string{"name": "x"}})
	req := httptest.NewRequest("POST", "/sms/campaigns/5", bytes.NewReader(b))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid_request") {
		t.Errorf("expected structured error code, got %s", w.Body.String())
	}
}

func TestStatusCallbackHandler(t *testing.T) {
	messages := &mockMessageRepo{messages: []model.OutboundMessage{
		{ID: 1, CampaignID: 3, CustomerID: 7, Sid: "SM0001", Status: "queued"},
	}}
	router := newRouter(messages)

	form := url.Values{}
	form.Set("MessageSid", "SM0001")
	form.Set("MessageStatus", "delivered")

	req := httptest.NewRequest("POST", "/sms/twilio/status-callback/3/7", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(messages.statuses) != 1 || messages.statuses[0] != "delivered" {
		t.Errorf("expected delivered status persisted, got %v", messages.statuses)
	}
}

func TestStatusCallbackHandlerUnknownMessage(t *testing.T) {
	router := newRouter(&mockMessageRepo{})

	form := url.Values{}
	form.Set("MessageSid", "SM9999")
	form.Set("MessageStatus", "delivered")

	req := httptest.NewRequest("POST", "/sms/twilio/status-callback/3/7", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Errorf("expected structured not_found code, got %s", w.Body.String())
	}
}

func TestListCampaignsHandlerValidatesBrandIDs(t *testing.T) {
	router := newRouter(&mockMessageRepo{})

	req := httptest.NewRequest("GET", "/sms/campaigns", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without brand_ids, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/sms/campaigns?brand_ids=1,2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
