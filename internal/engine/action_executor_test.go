package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// Mock stores with func fields

type mockContactStore struct {
	getContactFunc   func(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	updateStatusFunc func(ctx context.Context, id uuid.UUID, status string) error
	addTagFunc       func(ctx context.Context, contactID, tagID uuid.UUID) error
	removeTagFunc    func(ctx context.Context, contactID, tagID uuid.UUID) error
	addRecipientFunc func(ctx context.Context, campaignID, contactID uuid.UUID) error
	mutations        int
}

func (m *mockContactStore) GetContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	if m.getContactFunc != nil {
		return m.getContactFunc(ctx, id)
	}
	return nil, errors.New("contact not found")
}

func (m *mockContactStore) UpdateContactStatus(ctx context.Context, id uuid.UUID, status string) error {
	m.mutations++
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockContactStore) AddTag(ctx context.Context, contactID, tagID uuid.UUID) error {
	m.mutations++
	if m.addTagFunc != nil {
		return m.addTagFunc(ctx, contactID, tagID)
	}
	return nil
}

func (m *mockContactStore) RemoveTag(ctx context.Context, contactID, tagID uuid.UUID) error {
	m.mutations++
	if m.removeTagFunc != nil {
		return m.removeTagFunc(ctx, contactID, tagID)
	}
	return nil
}

func (m *mockContactStore) AddCampaignRecipient(ctx context.Context, campaignID, contactID uuid.UUID) error {
	m.mutations++
	if m.addRecipientFunc != nil {
		return m.addRecipientFunc(ctx, campaignID, contactID)
	}
	return nil
}

type mockTemplateStore struct {
	getTemplateFunc func(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error)
	getAccountFunc  func(ctx context.Context, owner models.OwnerScope, channel models.Channel) (*models.SendingAccount, error)
}

func (m *mockTemplateStore) GetTemplateByID(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error) {
	if m.getTemplateFunc != nil {
		return m.getTemplateFunc(ctx, id)
	}
	return nil, errors.New("template not found")
}

func (m *mockTemplateStore) GetActiveSendingAccount(ctx context.Context, owner models.OwnerScope, channel models.Channel) (*models.SendingAccount, error) {
	if m.getAccountFunc != nil {
		return m.getAccountFunc(ctx, owner, channel)
	}
	return nil, errors.New("no active sending account")
}

type mockMailer struct {
	sendFunc func(ctx context.Context, account *models.SendingAccount, to, subject, body string) (string, error)
}

func (m *mockMailer) SendEmail(ctx context.Context, account *models.SendingAccount, to, subject, body string) (string, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, account, to, subject, body)
	}
	return "msg-1", nil
}

type mockSMSSender struct {
	sendFunc func(ctx context.Context, account *models.SendingAccount, to, message string) (string, error)
}

func (m *mockSMSSender) SendSMS(ctx context.Context, account *models.SendingAccount, to, message string) (string, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, account, to, message)
	}
	return "sms-1", nil
}

func testContact() *models.Contact {
	return &models.Contact{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+15551234567",
		Company:   "Analytical Engines",
		Status:    "new",
	}
}

func automationWithAction(actionType string, config models.JSONB) *models.Automation {
	return &models.Automation{
		ID:           uuid.New(),
		Name:         "test automation",
		TriggerType:  "call_disposition",
		ActionType:   actionType,
		ActionConfig: config,
	}
}

func TestExecuteSendEmail(t *testing.T) {
	ctx := context.Background()
	log := logger.NewForTesting()
	contact := testContact()

	contacts := &mockContactStore{
		getContactFunc: func(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
			return contact, nil
		},
	}

	t.Run("inline body with variable substitution", func(t *testing.T) {
		var sentSubject, sentBody, sentTo string
		templates := &mockTemplateStore{
			getAccountFunc: func(ctx context.Context, owner models.OwnerScope, channel models.Channel) (*models.SendingAccount, error) {
				return &models.SendingAccount{Channel: models.ChannelEmail, IsActive: true}, nil
			},
		}
		mailer := &mockMailer{sendFunc: func(ctx context.Context, account *models.SendingAccount, to, subject, body string) (string, error) {
			sentTo, sentSubject, sentBody = to, subject, body
			return "msg-42", nil
		}}
		executor := NewActionExecutor(contacts, templates, mailer, nil, log)

		automation := automationWithAction(models.ActionSendEmail, models.JSONB{
			"subject": "Hi {{first_name}}",
			"body":    "Dear {{name}} at {{company}}",
		})
		result := executor.Execute(ctx, automation, contact.ID, nil)

		if !result.Success {
			t.Fatalf("expected success, got error: %s", result.Error)
		}
		if sentTo != "ada@example.com" {
			t.Errorf("wrong recipient: %s", sentTo)
		}
		if sentSubject != "Hi Ada" {
			t.Errorf("subject not substituted: %s", sentSubject)
		}
		if sentBody != "Dear Ada Lovelace at Analytical Engines" {
			t.Errorf("body not substituted: %s", sentBody)
		}
		if result.Data["message_id"] != "msg-42" {
			t.Errorf("expected message id on result, got %v", result.Data)
		}
	})

	t.Run("template resolution", func(t *testing.T) {
		templateID := uuid.New()
		templates := &mockTemplateStore{
			getTemplateFunc: func(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error) {
				if id != templateID {
					return nil, errors.New("template not found")
				}
				return &models.MessageTemplate{Subject: "Follow up", Body: "Hello {{first_name}}"}, nil
			},
			getAccountFunc: func(ctx context.Context, owner models.OwnerScope, channel models.Channel) (*models.SendingAccount, error) {
				return &models.SendingAccount{Channel: models.ChannelEmail, IsActive: true}, nil
			},
		}
		var sentBody string
		mailer := &mockMailer{sendFunc: func(ctx context.Context, account *models.SendingAccount, to, subject, body string) (string, error) {
			sentBody = body
			return "msg-1", nil
		}}
		executor := NewActionExecutor(contacts, templates, mailer, nil, log)

		automation := automationWithAction(models.ActionSendEmail, models.JSONB{"template_id": templateID.String()})
		result := executor.Execute(ctx, automation, contact.ID, nil)

		if !result.Success {
			t.Fatalf("expected success, got: %s", result.Error)
		}
		if sentBody != "Hello Ada" {
			t.Errorf("template body not substituted: %s", sentBody)
		}
	})

	t.Run("missing sending account fails", func(t *testing.T) {
		executor := NewActionExecutor(contacts, &mockTemplateStore{}, &mockMailer{}, nil, log)
		automation := automationWithAction(models.ActionSendEmail, models.JSONB{"body": "hi"})
		result := executor.Execute(ctx, automation, contact.ID, nil)
		if result.Success {
			t.Error("expected failure without sending account")
		}
	})

	t.Run("contact without email fails", func(t *testing.T) {
		noEmail := &mockContactStore{getContactFunc: func(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
			return &models.Contact{ID: id, FirstName: "No", LastName: "Email"}, nil
		}}
		executor := NewActionExecutor(noEmail, &mockTemplateStore{}, &mockMailer{}, nil, log)
		automation := automationWithAction(models.ActionSendEmail, models.JSONB{"body": "hi"})
		result := executor.Execute(ctx, automation, contact.ID, nil)
		if result.Success {
			t.Error("expected failure for contact without email")
		}
	})
}

func TestExecuteSendSMS(t *testing.T) {
	ctx := context.Background()
	log := logger.NewForTesting()
	contact := testContact()

	contacts := &mockContactStore{getContactFunc: func(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
		return contact, nil
	}}
	templates := &mockTemplateStore{
		getAccountFunc: func(ctx context.Context, owner models.OwnerScope, channel models.Channel) (*models.SendingAccount, error) {
			return &models.SendingAccount{Channel: models.ChannelSMS, IsActive: true}, nil
		},
	}

	var sentMessage string
	sms := &mockSMSSender{sendFunc: func(ctx context.Context, account *models.SendingAccount, to, message string) (string, error) {
		sentMessage = message
		return "sms-9", nil
	}}
	executor := NewActionExecutor(contacts, templates, nil, sms, log)

	automation := automationWithAction(models.ActionSendSMS, models.JSONB{"message": "Hey {{first_name}}, still interested?"})
	result := executor.Execute(ctx, automation, contact.ID, nil)

	if !result.Success {
		t.Fatalf("expected success, got: %s", result.Error)
	}
	if sentMessage != "Hey Ada, still interested?" {
		t.Errorf("message not substituted: %s", sentMessage)
	}
}

func TestExecuteTagActions(t *testing.T) {
	ctx := context.Background()
	log := logger.NewForTesting()

	t.Run("add_tag without tag_id fails without mutation", func(t *testing.T) {
		contacts := &mockContactStore{}
		executor := NewActionExecutor(contacts, &mockTemplateStore{}, nil, nil, log)

		automation := automationWithAction(models.ActionAddTag, models.JSONB{})
		result := executor.Execute(ctx, automation, uuid.New(), nil)

		if result.Success {
			t.Error("expected failure without tag_id")
		}
		if result.Error != "Tag ID required" {
			t.Errorf("expected error %q, got %q", "Tag ID required", result.Error)
		}
		if contacts.mutations != 0 {
			t.Errorf("expected no mutations, got %d", contacts.mutations)
		}
	})

	t.Run("add_tag with tag_id succeeds", func(t *testing.T) {
		var gotTag uuid.UUID
		contacts := &mockContactStore{addTagFunc: func(ctx context.Context, contactID, tagID uuid.UUID) error {
			gotTag = tagID
			return nil
		}}
		executor := NewActionExecutor(contacts, &mockTemplateStore{}, nil, nil, log)

		tagID := uuid.New()
		automation := automationWithAction(models.ActionAddTag, models.JSONB{"tag_id": tagID.String()})
		result := executor.Execute(ctx, automation, uuid.New(), nil)

		if !result.Success {
			t.Fatalf("expected success, got: %s", result.Error)
		}
		if gotTag != tagID {
			t.Errorf("expected tag %s, got %s", tagID, gotTag)
		}
	})

	t.Run("remove_tag without tag_id fails", func(t *testing.T) {
		executor := NewActionExecutor(&mockContactStore{}, &mockTemplateStore{}, nil, nil, log)
		automation := automationWithAction(models.ActionRemoveTag, models.JSONB{})
		result := executor.Execute(ctx, automation, uuid.New(), nil)
		if result.Error != "Tag ID required" {
			t.Errorf("expected error %q, got %q", "Tag ID required", result.Error)
		}
	})
}

func TestExecuteUpdateStatus(t *testing.T) {
	ctx := context.Background()
	log := logger.NewForTesting()

	t.Run("missing status fails", func(t *testing.T) {
		executor := NewActionExecutor(&mockContactStore{}, &mockTemplateStore{}, nil, nil, log)
		automation := automationWithAction(models.ActionUpdateStatus, models.JSONB{})
		result := executor.Execute(ctx, automation, uuid.New(), nil)
		if result.Error != "Status required" {
			t.Errorf("expected error %q, got %q", "Status required", result.Error)
		}
	})

	t.Run("status overwritten", func(t *testing.T) {
		var gotStatus string
		contacts := &mockContactStore{updateStatusFunc: func(ctx context.Context, id uuid.UUID, status string) error {
			gotStatus = status
			return nil
		}}
		executor := NewActionExecutor(contacts, &mockTemplateStore{}, nil, nil, log)

		automation := automationWithAction(models.ActionUpdateStatus, models.JSONB{"status": "qualified"})
		result := executor.Execute(ctx, automation, uuid.New(), nil)

		if !result.Success {
			t.Fatalf("expected success, got: %s", result.Error)
		}
		if gotStatus != "qualified" {
			t.Errorf("expected status qualified, got %s", gotStatus)
		}
	})
}

func TestExecuteWebhook(t *testing.T) {
	ctx := context.Background()
	log := logger.NewForTesting()
	contact := testContact()
	contacts := &mockContactStore{getContactFunc: func(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
		return contact, nil
	}}

	t.Run("missing url fails", func(t *testing.T) {
		executor := NewActionExecutor(contacts, &mockTemplateStore{}, nil, nil, log)
		automation := automationWithAction(models.ActionWebhook, models.JSONB{})
		result := executor.Execute(ctx, automation, contact.ID, nil)
		if result.Error != "Webhook URL required" {
			t.Errorf("expected error %q, got %q", "Webhook URL required", result.Error)
		}
	})

	t.Run("posts envelope and reports 2xx success", func(t *testing.T) {
		var gotBody map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decodeJSONBody(t, r, &gotBody)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		executor := NewActionExecutor(contacts, &mockTemplateStore{}, nil, nil, log)
		automation := automationWithAction(models.ActionWebhook, models.JSONB{"url": server.URL})
		triggerData := map[string]interface{}{"disposition_name": "Interested"}

		result := executor.Execute(ctx, automation, contact.ID, triggerData)
		if !result.Success {
			t.Fatalf("expected success, got: %s", result.Error)
		}
		for _, key := range []string{"event", "contact", "trigger_data", "timestamp"} {
			if _, ok := gotBody[key]; !ok {
				t.Errorf("envelope missing %q", key)
			}
		}
	})

	t.Run("non-2xx reports failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		executor := NewActionExecutor(contacts, &mockTemplateStore{}, nil, nil, log)
		automation := automationWithAction(models.ActionWebhook, models.JSONB{"url": server.URL})
		result := executor.Execute(ctx, automation, contact.ID, nil)
		if result.Success {
			t.Error("expected failure for 502 response")
		}
	})
}

func decodeJSONBody(t *testing.T, r *http.Request, dest interface{}) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
}

func TestExecuteMoveToCampaign(t *testing.T) {
	ctx := context.Background()
	log := logger.NewForTesting()

	t.Run("missing campaign_id fails", func(t *testing.T) {
		executor := NewActionExecutor(&mockContactStore{}, &mockTemplateStore{}, nil, nil, log)
		automation := automationWithAction(models.ActionMoveToCampaign, models.JSONB{})
		result := executor.Execute(ctx, automation, uuid.New(), nil)
		if result.Error != "Campaign ID required" {
			t.Errorf("expected error %q, got %q", "Campaign ID required", result.Error)
		}
	})

	t.Run("contact inserted as recipient", func(t *testing.T) {
		var gotCampaign uuid.UUID
		contacts := &mockContactStore{addRecipientFunc: func(ctx context.Context, campaignID, contactID uuid.UUID) error {
			gotCampaign = campaignID
			return nil
		}}
		executor := NewActionExecutor(contacts, &mockTemplateStore{}, nil, nil, log)

		campaignID := uuid.New()
		automation := automationWithAction(models.ActionMoveToCampaign, models.JSONB{"campaign_id": campaignID.String()})
		result := executor.Execute(ctx, automation, uuid.New(), nil)

		if !result.Success {
			t.Fatalf("expected success, got: %s", result.Error)
		}
		if gotCampaign != campaignID {
			t.Errorf("expected campaign %s, got %s", campaignID, gotCampaign)
		}
	})
}

func TestExecuteStubActions(t *testing.T) {
	ctx := context.Background()
	executor := NewActionExecutor(&mockContactStore{}, &mockTemplateStore{}, nil, nil, logger.NewForTesting())

	t.Run("notify_user echoes config", func(t *testing.T) {
		automation := automationWithAction(models.ActionNotifyUser, models.JSONB{"message": "hot lead"})
		result := executor.Execute(ctx, automation, uuid.New(), nil)
		if !result.Success {
			t.Fatalf("expected success, got: %s", result.Error)
		}
		if result.Data["notification"] != "hot lead" {
			t.Errorf("expected echoed notification, got %v", result.Data)
		}
	})

	t.Run("schedule_call reports success", func(t *testing.T) {
		automation := automationWithAction(models.ActionScheduleCall, models.JSONB{"notes": "try after 5pm"})
		result := executor.Execute(ctx, automation, uuid.New(), nil)
		if !result.Success {
			t.Fatalf("expected success, got: %s", result.Error)
		}
	})
}

func TestExecuteUnknownAction(t *testing.T) {
	executor := NewActionExecutor(&mockContactStore{}, &mockTemplateStore{}, nil, nil, logger.NewForTesting())
	automation := automationWithAction("launch_rocket", models.JSONB{})
	result := executor.Execute(context.Background(), automation, uuid.New(), nil)

	if result.Success {
		t.Error("expected failure for unknown action type")
	}
	if result.Error != "Unknown action type" {
		t.Errorf("expected error %q, got %q", "Unknown action type", result.Error)
	}
}
