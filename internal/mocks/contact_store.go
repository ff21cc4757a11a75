package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// ContactStore is a simple in-memory contact store for testing. Tag and
// campaign membership mutations are idempotent, matching the persistence
// layer's ON CONFLICT behavior.
type ContactStore struct {
	mu         sync.RWMutex
	contacts   map[uuid.UUID]*models.Contact
	tags       map[uuid.UUID]map[uuid.UUID]bool // contactID -> tagID set
	recipients map[uuid.UUID]map[uuid.UUID]bool // campaignID -> contactID set
}

// NewContactStore creates a new in-memory contact store
func NewContactStore() *ContactStore {
	return &ContactStore{
		contacts:   make(map[uuid.UUID]*models.Contact),
		tags:       make(map[uuid.UUID]map[uuid.UUID]bool),
		recipients: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

// Add stores a contact
func (s *ContactStore) Add(contact *models.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	s.contacts[contact.ID] = contact
}

// GetContactByID retrieves a contact by ID
func (s *ContactStore) GetContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, exists := s.contacts[id]
	if !exists {
		return nil, fmt.Errorf("contact not found")
	}
	return contact, nil
}

// UpdateContactStatus overwrites the contact's status field
func (s *ContactStore) UpdateContactStatus(ctx context.Context, id uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, exists := s.contacts[id]
	if !exists {
		return fmt.Errorf("contact not found")
	}
	contact.Status = status
	return nil
}

// AddTag inserts the tag membership if absent
func (s *ContactStore) AddTag(ctx context.Context, contactID, tagID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[contactID]; !exists {
		return fmt.Errorf("contact not found")
	}
	if s.tags[contactID] == nil {
		s.tags[contactID] = make(map[uuid.UUID]bool)
	}
	s.tags[contactID][tagID] = true
	return nil
}

// RemoveTag deletes the tag membership if present
func (s *ContactStore) RemoveTag(ctx context.Context, contactID, tagID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[contactID]; !exists {
		return fmt.Errorf("contact not found")
	}
	delete(s.tags[contactID], tagID)
	return nil
}

// AddCampaignRecipient inserts the contact as a campaign recipient if absent
func (s *ContactStore) AddCampaignRecipient(ctx context.Context, campaignID, contactID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[contactID]; !exists {
		return fmt.Errorf("contact not found")
	}
	if s.recipients[campaignID] == nil {
		s.recipients[campaignID] = make(map[uuid.UUID]bool)
	}
	s.recipients[campaignID][contactID] = true
	return nil
}

// HasTag reports whether the contact carries the tag
func (s *ContactStore) HasTag(contactID, tagID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tags[contactID][tagID]
}

// IsRecipient reports whether the contact is a recipient of the campaign
func (s *ContactStore) IsRecipient(campaignID, contactID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipients[campaignID][contactID]
}

// Reset clears all contacts and memberships
func (s *ContactStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = make(map[uuid.UUID]*models.Contact)
	s.tags = make(map[uuid.UUID]map[uuid.UUID]bool)
	s.recipients = make(map[uuid.UUID]map[uuid.UUID]bool)
}

// TemplateStore is a simple in-memory template and sending-account store
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]*models.MessageTemplate
	accounts  map[models.Channel]*models.SendingAccount
}

// NewTemplateStore creates a new in-memory template store
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{
		templates: make(map[uuid.UUID]*models.MessageTemplate),
		accounts:  make(map[models.Channel]*models.SendingAccount),
	}
}

// AddTemplate stores a template
func (s *TemplateStore) AddTemplate(template *models.MessageTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	s.templates[template.ID] = template
}

// SetAccount registers the active sending account for a channel
func (s *TemplateStore) SetAccount(account *models.SendingAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	s.accounts[account.Channel] = account
}

// GetTemplateByID retrieves a template by ID
func (s *TemplateStore) GetTemplateByID(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	template, exists := s.templates[id]
	if !exists {
		return nil, fmt.Errorf("template not found")
	}
	return template, nil
}

// GetActiveSendingAccount retrieves the active account for the channel
func (s *TemplateStore) GetActiveSendingAccount(ctx context.Context, owner models.OwnerScope, channel models.Channel) (*models.SendingAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accounts[channel]
	if !exists || !account.IsActive {
		return nil, fmt.Errorf("no active sending account for channel %s", channel)
	}
	return account, nil
}
