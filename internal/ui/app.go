package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"contact-service/internal/client"
	"contact-service/internal/model"
	"contact-service/internal/validation"
)

// Tenant is a selectable partition offered by the tenant selector. Tenants
// are not stored entities; the client offers a fixed set.
type Tenant struct {
	ID   uint
	Name string
}

// DefaultTenants is the fixed set of selectable tenants.
var DefaultTenants = []Tenant{
	{ID: 1, Name: "Company 1"},
	{ID: 2, Name: "Company 2"},
}

// API is the surface of the contact service the views depend on.
type API interface {
	ListContacts(ctx context.Context, tenantID uint) ([]model.Contact, error)
	CreateContact(ctx context.Context, tenantID uint, in validation.ContactInput) (*model.Contact, error)
	UpdateContact(ctx context.Context, id uint, in validation.ContactInput) (*model.Contact, error)
	DeleteContact(ctx context.Context, id uint) error
	Health(ctx context.Context) error
}

// App drives the three views (tenant selector, contact list with creation
// form, detail/edit pane) over an injected store and API client.
type App struct {
	store    *Store
	api      API
	validate *validation.Validator
	tenants  []Tenant
	in       *bufio.Scanner
	out      io.Writer
}

// NewApp wires the terminal client together.
func NewApp(store *Store, api API, in io.Reader, out io.Writer) *App {
	return &App{
		store:    store,
		api:      api,
		validate: validation.New(),
		tenants:  DefaultTenants,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run fetches the active tenant's contacts and enters the command loop. It
// returns when the input stream ends or the user quits.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Multi-Tenant Contact Manager")
	a.refresh(ctx)
	a.render()

	for {
		fmt.Fprint(a.out, "> ")
		line, ok := a.readLine()
		if !ok {
			return nil
		}
		if quit := a.dispatch(ctx, line); quit {
			return nil
		}
	}
}

func (a *App) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// dispatch runs one command. It reports whether the loop should stop.
func (a *App) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		a.printHelp()
	case "tenants":
		a.renderTenants()
	case "use":
		a.switchTenant(ctx, args)
	case "list", "refresh":
		a.refresh(ctx)
		a.renderContacts()
	case "select":
		a.selectContact(args)
	case "show":
		a.renderDetail()
	case "add":
		a.addContact(ctx)
	case "edit":
		a.editContact(ctx)
	case "delete":
		a.deleteContact(ctx)
	case "health":
		a.checkHealth(ctx)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(a.out, "Unknown command %q, try 'help'\n", cmd)
	}
	return false
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `Commands:
  tenants        show the tenant selector
  use <id>       switch the active tenant
  list           refetch and show the contact list
  select <id>    select a contact
  show           show the selected contact
  add            create a contact
  edit           edit the selected contact
  delete         delete the selected contact
  health         probe the API server
  quit           exit`)
}

// errorMessage renders a failure near the acting view, with a distinct
// remediation message when the service process is not running at all.
func (a *App) errorMessage(err error) string {
	if errors.Is(err, client.ErrServerUnreachable) {
		return "Backend unreachable - start contact-service and try again"
	}
	return err.Error()
}

// refresh replaces the cached list wholesale for the active tenant.
func (a *App) refresh(ctx context.Context) {
	fmt.Fprintln(a.out, "Loading contacts...")
	contacts, err := a.api.ListContacts(ctx, a.store.ActiveTenant())
	if err != nil {
		a.store.SetContacts(nil)
		fmt.Fprintf(a.out, "Error: %s\n", a.errorMessage(err))
		return
	}
	a.store.SetContacts(contacts)
}

func (a *App) render() {
	a.renderTenants()
	a.renderContacts()
	a.renderDetail()
}

func (a *App) renderTenants() {
	fmt.Fprintln(a.out, "Companies:")
	for _, tenant := range a.tenants {
		marker := " "
		if tenant.ID == a.store.ActiveTenant() {
			marker = "*"
		}
		fmt.Fprintf(a.out, " %s [%d] %s\n", marker, tenant.ID, tenant.Name)
	}
}

func (a *App) renderContacts() {
	contacts := a.store.Contacts()
	if len(contacts) == 0 {
		fmt.Fprintln(a.out, "No contacts found")
		return
	}

	selected := a.store.SelectedContact()
	fmt.Fprintln(a.out, "Contacts:")
	for _, contact := range contacts {
		marker := " "
		if selected != nil && contact.ID == selected.ID {
			marker = ">"
		}
		fmt.Fprintf(a.out, " %s [%d] %s\n", marker, contact.ID, contact.Name)
	}
}

func (a *App) renderDetail() {
	contact := a.store.SelectedContact()
	if contact == nil {
		fmt.Fprintln(a.out, "Select a contact to view or edit details")
		return
	}
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\n", contact.Name, contact.Email)
}

func (a *App) switchTenant(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: use <tenant id>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || id == 0 {
		fmt.Fprintln(a.out, "Invalid tenant ID")
		return
	}

	// Switching tenants always invalidates the selection
	a.store.SetActiveTenant(uint(id))
	a.refresh(ctx)
	a.renderContacts()
}

func (a *App) selectContact(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: select <contact id>")
		return
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintln(a.out, "Invalid contact ID")
		return
	}

	for _, contact := range a.store.Contacts() {
		if contact.ID == uint(id) {
			a.store.SetSelectedContact(contact.ID)
			a.renderDetail()
			return
		}
	}
	fmt.Fprintln(a.out, "No such contact in the current list")
}

// promptInput reads name and email for the creation/edit forms. Empty input
// keeps the seed value.
func (a *App) promptInput(seedName, seedEmail string) (validation.ContactInput, bool) {
	fmt.Fprintf(a.out, "Name [%s]: ", seedName)
	name, ok := a.readLine()
	if !ok {
		return validation.ContactInput{}, false
	}
	if name == "" {
		name = seedName
	}

	fmt.Fprintf(a.out, "Email [%s]: ", seedEmail)
	email, ok := a.readLine()
	if !ok {
		return validation.ContactInput{}, false
	}
	if email == "" {
		email = seedEmail
	}

	return validation.ContactInput{Name: name, Email: email}, true
}

func (a *App) addContact(ctx context.Context) {
	in, ok := a.promptInput("", "")
	if !ok {
		return
	}

	// Same validation as the server, to avoid a round trip on bad input
	if err := a.validate.ValidateContact(&in); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return
	}

	fmt.Fprintln(a.out, "Saving...")
	created, err := a.api.CreateContact(ctx, a.store.ActiveTenant(), in)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", a.errorMessage(err))
		return
	}

	// Patch the cache optimistically instead of refetching
	a.store.AddContact(*created)
	fmt.Fprintf(a.out, "Created contact [%d] %s\n", created.ID, created.Name)
}

func (a *App) editContact(ctx context.Context) {
	contact := a.store.SelectedContact()
	if contact == nil {
		fmt.Fprintln(a.out, "Select a contact first")
		return
	}

	// Seed the form fields from the selected record
	in, ok := a.promptInput(contact.Name, contact.Email)
	if !ok {
		return
	}

	if err := a.validate.ValidateContact(&in); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return
	}

	fmt.Fprintln(a.out, "Saving...")
	updated, err := a.api.UpdateContact(ctx, contact.ID, in)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", a.errorMessage(err))
		return
	}

	a.store.ReplaceContact(*updated)
	a.renderDetail()
}

func (a *App) deleteContact(ctx context.Context) {
	contact := a.store.SelectedContact()
	if contact == nil {
		fmt.Fprintln(a.out, "Select a contact first")
		return
	}

	fmt.Fprintf(a.out, "Delete %s? [y/N]: ", contact.Name)
	answer, ok := a.readLine()
	if !ok || !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}

	fmt.Fprintln(a.out, "Deleting...")
	if err := a.api.DeleteContact(ctx, contact.ID); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", a.errorMessage(err))
		return
	}

	a.store.RemoveContact(contact.ID)
	fmt.Fprintln(a.out, "Deleted successfully")
}

func (a *App) checkHealth(ctx context.Context) {
	if err := a.api.Health(ctx); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", a.errorMessage(err))
		return
	}
	fmt.Fprintln(a.out, "OK")
}
