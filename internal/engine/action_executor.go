package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// ActionResult represents the outcome of one action execution
type ActionResult struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// AsMap renders the result for storage on the execution record
func (r *ActionResult) AsMap() models.JSONB {
	out := models.JSONB{"success": r.Success}
	if r.Error != "" {
		out["error"] = r.Error
	}
	for k, v := range r.Data {
		out[k] = v
	}
	return out
}

func actionFailure(format string, args ...interface{}) *ActionResult {
	return &ActionResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

// ContactStore is the contact-side persistence the actions mutate
type ContactStore interface {
	GetContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	UpdateContactStatus(ctx context.Context, id uuid.UUID, status string) error
	AddTag(ctx context.Context, contactID, tagID uuid.UUID) error
	RemoveTag(ctx context.Context, contactID, tagID uuid.UUID) error
	AddCampaignRecipient(ctx context.Context, campaignID, contactID uuid.UUID) error
}

// TemplateStore resolves message templates and sending accounts
type TemplateStore interface {
	GetTemplateByID(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error)
	GetActiveSendingAccount(ctx context.Context, owner models.OwnerScope, channel models.Channel) (*models.SendingAccount, error)
}

// Mailer dispatches one email through a sending account
type Mailer interface {
	SendEmail(ctx context.Context, account *models.SendingAccount, to, subject, body string) (string, error)
}

// SMSSender dispatches one SMS through a sending account
type SMSSender interface {
	SendSMS(ctx context.Context, account *models.SendingAccount, to, message string) (string, error)
}

// ActionExecutor dispatches the configured action for a matched automation.
// Every action catches its own errors and reports them on the ActionResult;
// one failing action never propagates an error to the routing pass.
type ActionExecutor struct {
	contacts   ContactStore
	templates  TemplateStore
	mailer     Mailer
	sms        SMSSender
	httpClient *http.Client
	logger     *logger.Logger
}

// NewActionExecutor creates a new action executor
func NewActionExecutor(
	contacts ContactStore,
	templates TemplateStore,
	mailer Mailer,
	sms SMSSender,
	log *logger.Logger,
) *ActionExecutor {
	return &ActionExecutor{
		contacts:  contacts,
		templates: templates,
		mailer:    mailer,
		sms:       sms,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// Execute runs the automation's action against the contact. The trigger data
// is the event payload snapshot included in webhook envelopes.
func (ae *ActionExecutor) Execute(
	ctx context.Context,
	automation *models.Automation,
	contactID uuid.UUID,
	triggerData map[string]interface{},
) *ActionResult {
	switch automation.ActionType {
	case models.ActionSendEmail:
		return ae.executeSendEmail(ctx, automation, contactID)

	case models.ActionSendSMS:
		return ae.executeSendSMS(ctx, automation, contactID)

	case models.ActionAddTag:
		return ae.executeAddTag(ctx, automation, contactID)

	case models.ActionRemoveTag:
		return ae.executeRemoveTag(ctx, automation, contactID)

	case models.ActionUpdateStatus:
		return ae.executeUpdateStatus(ctx, automation, contactID)

	case models.ActionNotifyUser:
		return ae.executeNotifyUser(automation)

	case models.ActionScheduleCall:
		return ae.executeScheduleCall(automation)

	case models.ActionWebhook:
		return ae.executeWebhook(ctx, automation, contactID, triggerData)

	case models.ActionMoveToCampaign:
		return ae.executeMoveToCampaign(ctx, automation, contactID)

	default:
		ae.logger.Warn("unknown action type",
			logger.String("action_type", automation.ActionType),
			logger.String("automation_id", automation.ID.String()),
		)
		return &ActionResult{Success: false, Error: "Unknown action type"}
	}
}

func (ae *ActionExecutor) executeSendEmail(ctx context.Context, automation *models.Automation, contactID uuid.UUID) *ActionResult {
	contact, err := ae.contacts.GetContactByID(ctx, contactID)
	if err != nil {
		return actionFailure("failed to resolve contact: %v", err)
	}
	if contact.Email == "" {
		return actionFailure("contact has no email address")
	}

	subject, body, result := ae.resolveMessage(ctx, automation, models.ChannelEmail)
	if result != nil {
		return result
	}
	subject = substituteVariables(subject, contact)
	body = substituteVariables(body, contact)

	account, err := ae.templates.GetActiveSendingAccount(ctx, automation.Owner(), models.ChannelEmail)
	if err != nil {
		return actionFailure("no active sending account: %v", err)
	}

	messageID, err := ae.mailer.SendEmail(ctx, account, contact.Email, subject, body)
	if err != nil {
		return actionFailure("failed to send email: %v", err)
	}

	ae.logger.Infof("Email sent to %s via automation %s", contact.Email, automation.Name)
	return &ActionResult{
		Success: true,
		Data: map[string]interface{}{
			"recipient":  contact.Email,
			"subject":    subject,
			"message_id": messageID,
		},
	}
}

func (ae *ActionExecutor) executeSendSMS(ctx context.Context, automation *models.Automation, contactID uuid.UUID) *ActionResult {
	contact, err := ae.contacts.GetContactByID(ctx, contactID)
	if err != nil {
		return actionFailure("failed to resolve contact: %v", err)
	}
	if contact.Phone == "" {
		return actionFailure("contact has no phone number")
	}

	_, message, result := ae.resolveMessage(ctx, automation, models.ChannelSMS)
	if result != nil {
		return result
	}
	message = substituteVariables(message, contact)

	account, err := ae.templates.GetActiveSendingAccount(ctx, automation.Owner(), models.ChannelSMS)
	if err != nil {
		return actionFailure("no active sending account: %v", err)
	}

	messageID, err := ae.sms.SendSMS(ctx, account, contact.Phone, message)
	if err != nil {
		return actionFailure("failed to send sms: %v", err)
	}

	ae.logger.Infof("SMS sent to %s via automation %s", contact.Phone, automation.Name)
	return &ActionResult{
		Success: true,
		Data: map[string]interface{}{
			"recipient":  contact.Phone,
			"message_id": messageID,
		},
	}
}

// resolveMessage loads the configured template when template_id is set,
// otherwise falls back to the inline subject/body/message config values. A
// non-nil ActionResult is the failure to return.
func (ae *ActionExecutor) resolveMessage(ctx context.Context, automation *models.Automation, channel models.Channel) (string, string, *ActionResult) {
	config := automation.ActionConfig

	if templateID := configString(config, "template_id"); templateID != "" {
		id, err := uuid.Parse(templateID)
		if err != nil {
			return "", "", actionFailure("invalid template_id: %v", err)
		}
		template, err := ae.templates.GetTemplateByID(ctx, id)
		if err != nil {
			return "", "", actionFailure("failed to resolve template: %v", err)
		}
		return template.Subject, template.Body, nil
	}

	subject := configString(config, "subject")
	body := configString(config, "body", "message")
	if body == "" {
		return "", "", actionFailure("no template or inline message configured")
	}
	return subject, body, nil
}

func (ae *ActionExecutor) executeAddTag(ctx context.Context, automation *models.Automation, contactID uuid.UUID) *ActionResult {
	tagID, result := configUUID(automation.ActionConfig, "tag_id", "Tag ID required")
	if result != nil {
		return result
	}

	if err := ae.contacts.AddTag(ctx, contactID, tagID); err != nil {
		return actionFailure("failed to add tag: %v", err)
	}
	return &ActionResult{Success: true, Data: map[string]interface{}{"tag_id": tagID.String()}}
}

func (ae *ActionExecutor) executeRemoveTag(ctx context.Context, automation *models.Automation, contactID uuid.UUID) *ActionResult {
	tagID, result := configUUID(automation.ActionConfig, "tag_id", "Tag ID required")
	if result != nil {
		return result
	}

	if err := ae.contacts.RemoveTag(ctx, contactID, tagID); err != nil {
		return actionFailure("failed to remove tag: %v", err)
	}
	return &ActionResult{Success: true, Data: map[string]interface{}{"tag_id": tagID.String()}}
}

func (ae *ActionExecutor) executeUpdateStatus(ctx context.Context, automation *models.Automation, contactID uuid.UUID) *ActionResult {
	status := configString(automation.ActionConfig, "status")
	if status == "" {
		return &ActionResult{Success: false, Error: "Status required"}
	}

	if err := ae.contacts.UpdateContactStatus(ctx, contactID, status); err != nil {
		return actionFailure("failed to update status: %v", err)
	}
	return &ActionResult{Success: true, Data: map[string]interface{}{"status": status}}
}

// executeNotifyUser reports success with the configured parameters echoed
// back. There is no delivery guarantee; the notification channel is resolved
// downstream.
func (ae *ActionExecutor) executeNotifyUser(automation *models.Automation) *ActionResult {
	ae.logger.Infof("Notify action for automation %s: %s", automation.Name, configString(automation.ActionConfig, "message"))
	return &ActionResult{
		Success: true,
		Data: map[string]interface{}{
			"notification": configString(automation.ActionConfig, "message"),
			"notified_at":  time.Now().UTC().Unix(),
		},
	}
}

// executeScheduleCall echoes the requested call parameters back as the result
func (ae *ActionExecutor) executeScheduleCall(automation *models.Automation) *ActionResult {
	return &ActionResult{
		Success: true,
		Data: map[string]interface{}{
			"call_notes":   configString(automation.ActionConfig, "notes"),
			"requested_at": time.Now().UTC().Unix(),
		},
	}
}

func (ae *ActionExecutor) executeWebhook(ctx context.Context, automation *models.Automation, contactID uuid.UUID, triggerData map[string]interface{}) *ActionResult {
	url := configString(automation.ActionConfig, "url", "webhook_url")
	if url == "" {
		return &ActionResult{Success: false, Error: "Webhook URL required"}
	}

	var contactPayload interface{}
	if contact, err := ae.contacts.GetContactByID(ctx, contactID); err == nil {
		contactPayload = contact
	} else {
		contactPayload = map[string]interface{}{"id": contactID.String()}
	}

	envelope := map[string]interface{}{
		"event":        automation.TriggerType,
		"contact":      contactPayload,
		"trigger_data": triggerData,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return actionFailure("failed to marshal webhook payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return actionFailure("failed to create webhook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := ae.httpClient.Do(req)
	if err != nil {
		return actionFailure("webhook request failed: %v", err)
	}
	defer resp.Body.Close()

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	result := &ActionResult{
		Success: success,
		Data: map[string]interface{}{
			"url":         url,
			"status_code": resp.StatusCode,
		},
	}
	if !success {
		result.Error = fmt.Sprintf("webhook returned status %d", resp.StatusCode)
	}
	return result
}

func (ae *ActionExecutor) executeMoveToCampaign(ctx context.Context, automation *models.Automation, contactID uuid.UUID) *ActionResult {
	campaignID, result := configUUID(automation.ActionConfig, "campaign_id", "Campaign ID required")
	if result != nil {
		return result
	}

	if err := ae.contacts.AddCampaignRecipient(ctx, campaignID, contactID); err != nil {
		return actionFailure("failed to move contact to campaign: %v", err)
	}
	return &ActionResult{Success: true, Data: map[string]interface{}{"campaign_id": campaignID.String()}}
}

// substituteVariables replaces {{placeholder}} tokens with contact fields
func substituteVariables(text string, contact *models.Contact) string {
	replacer := strings.NewReplacer(
		"{{first_name}}", contact.FirstName,
		"{{last_name}}", contact.LastName,
		"{{email}}", contact.Email,
		"{{phone}}", contact.Phone,
		"{{company}}", contact.Company,
		"{{name}}", contact.FullName(),
	)
	return replacer.Replace(text)
}

// configString returns the first non-empty string among the given config keys
func configString(config models.JSONB, keys ...string) string {
	for _, key := range keys {
		if s, ok := config[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// configUUID parses a required UUID config value, returning the failure
// result with the given message when absent
func configUUID(config models.JSONB, key, missingError string) (uuid.UUID, *ActionResult) {
	raw := configString(config, key)
	if raw == "" {
		return uuid.Nil, &ActionResult{Success: false, Error: missingError}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, actionFailure("invalid %s: %v", key, err)
	}
	return id, nil
}
