// Package ui implements the interactive terminal client: an observable state
// container plus the tenant/list/detail views rendered over it.
package ui

import (
	"sync"

	"contact-service/internal/model"
)

// Store is the shared client-side state: the active tenant, the selected
// contact and the cached contact list for the active tenant. It is an
// explicit, injectable container so view logic can be tested without any
// terminal interaction.
type Store struct {
	mu                sync.Mutex
	activeTenantID    uint
	selectedContactID uint
	contacts          []model.Contact
	listeners         []func()
}

// NewStore creates a store with the given initially active tenant.
func NewStore(activeTenantID uint) *Store {
	return &Store{activeTenantID: activeTenantID}
}

// Subscribe registers a callback invoked after every state change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}

// SetActiveTenant switches the active tenant and always clears the selection,
// since a contact list is tenant-scoped. The cached list is discarded; the
// caller is expected to refetch.
func (s *Store) SetActiveTenant(tenantID uint) {
	s.mu.Lock()
	s.activeTenantID = tenantID
	s.selectedContactID = 0
	s.contacts = nil
	s.mu.Unlock()
	s.notify()
}

// ActiveTenant returns the active tenant id.
func (s *Store) ActiveTenant() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTenantID
}

// SetSelectedContact records the selected contact. Selection is idempotent;
// the last selection wins.
func (s *Store) SetSelectedContact(contactID uint) {
	s.mu.Lock()
	s.selectedContactID = contactID
	s.mu.Unlock()
	s.notify()
}

// ClearSelection drops the current selection.
func (s *Store) ClearSelection() {
	s.SetSelectedContact(0)
}

// SelectedContact returns the selected record from the cache, or nil when no
// contact is selected or the selection is no longer in the cache.
func (s *Store) SelectedContact() *model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedContactID == 0 {
		return nil
	}
	for i := range s.contacts {
		if s.contacts[i].ID == s.selectedContactID {
			contact := s.contacts[i]
			return &contact
		}
	}
	return nil
}

// SetContacts replaces the cached list wholesale (tenant switch or refetch).
func (s *Store) SetContacts(contacts []model.Contact) {
	s.mu.Lock()
	s.contacts = contacts
	s.mu.Unlock()
	s.notify()
}

// Contacts returns a copy of the cached list.
func (s *Store) Contacts() []model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// AddContact appends a freshly created record to the cache without a refetch.
func (s *Store) AddContact(contact model.Contact) {
	s.mu.Lock()
	s.contacts = append(s.contacts, contact)
	s.mu.Unlock()
	s.notify()
}

// ReplaceContact swaps the cached record with the same id for the updated one.
func (s *Store) ReplaceContact(updated model.Contact) {
	s.mu.Lock()
	for i := range s.contacts {
		if s.contacts[i].ID == updated.ID {
			s.contacts[i] = updated
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// RemoveContact drops the record from the cache and clears the selection if
// it pointed at the removed record.
func (s *Store) RemoveContact(contactID uint) {
	s.mu.Lock()
	kept := s.contacts[:0]
	for _, contact := range s.contacts {
		if contact.ID != contactID {
			kept = append(kept, contact)
		}
	}
	s.contacts = kept
	if s.selectedContactID == contactID {
		s.selectedContactID = 0
	}
	s.mu.Unlock()
	s.notify()
}
