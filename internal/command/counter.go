package command

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joestump/tallybot/internal/store"
)

const counterKind = "counter"

// counterSubcommands cannot be used as counter names; a counter called
// "public" could never be looked up by name.
var counterSubcommands = []string{
	"create", "info", "list", "increment", "decrement", "delete",
	"public", "whitelist", "blacklist",
}

func (d *Dispatcher) counter(req Request, a *args) (string, error) {
	sub, ok := a.next()
	if !ok {
		return "", rejected("Either specify a counter name or use one of the available commands.")
	}
	switch sub {
	case "create":
		return d.counterCreate(req, a)
	case "info":
		return d.counterInfo(req, a)
	case "list":
		return d.counterList(req)
	case "increment":
		return d.counterStep(req, a, (*store.Counter).Increment)
	case "decrement":
		return d.counterStep(req, a, (*store.Counter).Decrement)
	case "delete":
		return d.counterDelete(req, a)
	case "public":
		return d.counterPublic(req, a)
	case "whitelist":
		return d.counterAccess(req, a, func(c *store.Counter) *store.IDSet { return &c.WhitelistedUsers })
	case "blacklist":
		return d.counterAccess(req, a, func(c *store.Counter) *store.IDSet { return &c.BlacklistedUsers })
	default:
		return d.counterShow(req, sub)
	}
}

// counterShow replies with the count and records the query.
func (d *Dispatcher) counterShow(req Request, name string) (string, error) {
	c, err := d.counters.Use(req.Location, name, func(c *store.Counter) { c.Queries++ })
	if err != nil {
		return "", storeError(counterKind, err)
	}
	return strconv.FormatInt(c.Count, 10), nil
}

func (d *Dispatcher) counterCreate(req Request, a *args) (string, error) {
	raw, _ := a.next()
	name := store.NormalizeName(raw)
	if err := store.ValidateName(name); err != nil {
		return "", storeError(counterKind, err)
	}
	if slices.Contains(counterSubcommands, name) {
		return "", rejected("%q is a counter command and cannot be used as a name.", name)
	}
	c := store.NewCounter(name, req.ActorID, req.Location, d.now())
	if err := d.counters.Create(req.Location, name, c); err != nil {
		return "", storeError(counterKind, err)
	}
	return fmt.Sprintf("Counter %q successfully created.", name), nil
}

func (d *Dispatcher) counterInfo(req Request, a *args) (string, error) {
	name, ok := a.next()
	if !ok {
		return "", rejected("Please specify a name for the counter to get info on.")
	}
	c, err := d.counters.Get(req.Location, name)
	if err != nil {
		return "", storeError(counterKind, err)
	}
	return renderCounter(c), nil
}

func (d *Dispatcher) counterList(req Request) (string, error) {
	names, err := d.counters.Names(req.Location)
	if err != nil {
		return "", storeError(counterKind, err)
	}
	if len(names) == 0 {
		return "No counters available.", nil
	}
	return "Available counters: " + strings.Join(names, ", "), nil
}

// counterStep applies step to the count if the actor passes EditCheck.
func (d *Dispatcher) counterStep(req Request, a *args, step func(*store.Counter)) (string, error) {
	name, ok := a.next()
	if !ok {
		return "", rejected("Please specify a counter.")
	}
	if !a.empty() {
		return "", rejected("Unnecessary extra arguments provided.")
	}
	name = store.NormalizeName(name)
	_, err := d.counters.Update(req.Location, name, func(c *store.Counter) error {
		if !store.EditCheck(req.ActorID, *c) {
			return store.ErrForbidden
		}
		step(c)
		return nil
	})
	if err != nil {
		return "", storeError(counterKind, err)
	}
	return fmt.Sprintf("Counter %q successfully updated.", name), nil
}

func (d *Dispatcher) counterDelete(req Request, a *args) (string, error) {
	name, ok := a.next()
	if !ok {
		return "", rejected("Please specify a counter to delete.")
	}
	name = store.NormalizeName(name)
	removed, err := d.counters.Remove(req.Location, name, func(c store.Counter) error {
		if !store.OwnerCheck(req.ActorID, c.OwnerID) {
			return store.ErrForbidden
		}
		return nil
	})
	if err != nil {
		return "", storeError(counterKind, err)
	}
	if !removed {
		return fmt.Sprintf("Counter %q is generic and was not removed from this server.", name), nil
	}
	return fmt.Sprintf("Counter %q successfully deleted.", name), nil
}

// counterPublic toggles whether users other than the owner may edit.
func (d *Dispatcher) counterPublic(req Request, a *args) (string, error) {
	name, _ := a.next()
	mode, _ := a.next()
	var public bool
	switch strings.ToLower(mode) {
	case "on", "true", "yes":
		public = true
	case "off", "false", "no":
		public = false
	default:
		return "", rejected("Usage: counter public <name> on|off")
	}
	name = store.NormalizeName(name)
	_, err := d.counters.Update(req.Location, name, func(c *store.Counter) error {
		if !store.OwnerCheck(req.ActorID, c.OwnerID) {
			return store.ErrForbidden
		}
		c.PublicEdit = public
		return nil
	})
	if err != nil {
		return "", storeError(counterKind, err)
	}
	return fmt.Sprintf("Counter %q successfully updated.", name), nil
}

// counterAccess edits the whitelist or blacklist selected by field.
func (d *Dispatcher) counterAccess(req Request, a *args, field func(*store.Counter) *store.IDSet) (string, error) {
	name, _ := a.next()
	op, _ := a.next()
	rawUser, _ := a.next()
	user, ok := parseUser(rawUser)
	if name == "" || (op != "add" && op != "remove") || !ok {
		return "", rejected("Usage: counter whitelist|blacklist <name> add|remove <user>")
	}
	name = store.NormalizeName(name)
	_, err := d.counters.Update(req.Location, name, func(c *store.Counter) error {
		if !store.OwnerCheck(req.ActorID, c.OwnerID) {
			return store.ErrForbidden
		}
		set := field(c)
		if op == "add" {
			set.Add(user)
		} else {
			set.Remove(user)
		}
		return nil
	})
	if err != nil {
		return "", storeError(counterKind, err)
	}
	return fmt.Sprintf("Counter %q successfully updated.", name), nil
}

func renderCounter(c store.Counter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", c.Name)
	fmt.Fprintf(&b, "Count: %d\n", c.Count)
	fmt.Fprintf(&b, "Owner: %s\n", mention(c.OwnerID))
	fmt.Fprintf(&b, "Queries: %d\n", c.Queries)
	fmt.Fprintf(&b, "Public edit: %s\n", yesNo(c.PublicEdit))
	fmt.Fprintf(&b, "Whitelist: %s\n", renderUsers(c.WhitelistedUsers))
	fmt.Fprintf(&b, "Blacklist: %s\n", renderUsers(c.BlacklistedUsers))
	fmt.Fprintf(&b, "Created: %s\n", c.CreatedAt.UTC().Format(time.RFC3339))
	b.WriteString(scope(c.IsGeneric()))
	return b.String()
}

func renderUsers(s store.IDSet) string {
	if s.Len() == 0 {
		return "none"
	}
	users := make([]string, 0, s.Len())
	for _, id := range s.Sorted() {
		users = append(users, mention(id))
	}
	return strings.Join(users, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func scope(generic bool) string {
	if generic {
		return "Generic"
	}
	return "Server-specific"
}
