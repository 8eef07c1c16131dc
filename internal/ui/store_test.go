package ui

import (
	"testing"

	"contact-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore() *Store {
	s := NewStore(1)
	s.SetContacts([]model.Contact{
		{ID: 1, TenantID: 1, Name: "Amy", Email: "amy@x.com"},
		{ID: 2, TenantID: 1, Name: "Bob", Email: "bob@x.com"},
	})
	return s
}

func TestSwitchingTenantClearsSelectionAndCache(t *testing.T) {
	s := seedStore()
	s.SetSelectedContact(2)
	require.NotNil(t, s.SelectedContact())

	s.SetActiveTenant(2)

	assert.Equal(t, uint(2), s.ActiveTenant())
	assert.Nil(t, s.SelectedContact())
	assert.Empty(t, s.Contacts())
}

func TestSelectionIsIdempotent(t *testing.T) {
	s := seedStore()

	s.SetSelectedContact(1)
	s.SetSelectedContact(1) // clicking the selected row again has no toggle
	selected := s.SelectedContact()
	require.NotNil(t, selected)
	assert.Equal(t, uint(1), selected.ID)

	// last click wins
	s.SetSelectedContact(2)
	selected = s.SelectedContact()
	require.NotNil(t, selected)
	assert.Equal(t, uint(2), selected.ID)
}

func TestAddContactAppendsWithoutRefetch(t *testing.T) {
	s := seedStore()

	s.AddContact(model.Contact{ID: 3, TenantID: 1, Name: "Cas", Email: "cas@x.com"})

	contacts := s.Contacts()
	require.Len(t, contacts, 3)
	assert.Equal(t, "Cas", contacts[2].Name)
}

func TestReplaceContactPatchesByID(t *testing.T) {
	s := seedStore()

	s.ReplaceContact(model.Contact{ID: 2, TenantID: 1, Name: "Bobby", Email: "bobby@x.com"})

	contacts := s.Contacts()
	require.Len(t, contacts, 2)
	assert.Equal(t, "Amy", contacts[0].Name)
	assert.Equal(t, "Bobby", contacts[1].Name)
}

func TestRemoveContactClearsMatchingSelection(t *testing.T) {
	s := seedStore()
	s.SetSelectedContact(2)

	s.RemoveContact(2)

	assert.Len(t, s.Contacts(), 1)
	assert.Nil(t, s.SelectedContact())

	// removing a contact that is not selected keeps the selection
	s.SetSelectedContact(1)
	s.RemoveContact(999)
	require.NotNil(t, s.SelectedContact())
}

func TestSubscribeIsNotifiedOnEveryChange(t *testing.T) {
	s := NewStore(1)
	var calls int
	s.Subscribe(func() { calls++ })

	s.SetContacts(nil)
	s.SetActiveTenant(2)
	s.SetSelectedContact(1)
	s.ClearSelection()

	assert.Equal(t, 4, calls)
}
