package command

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joestump/tallybot/internal/store"
)

const tagKind = "tag"

var tagSubcommands = []string{"create", "info", "list", "edit", "delete"}

func (d *Dispatcher) tag(req Request, a *args) (string, error) {
	sub, ok := a.next()
	if !ok {
		return "", rejected("Either specify a tag name or use one of the available commands.")
	}
	switch sub {
	case "create":
		return d.tagCreate(req, a)
	case "info":
		return d.tagInfo(req, a)
	case "list":
		return d.tagList(req)
	case "edit":
		return d.tagEdit(req, a)
	case "delete":
		return d.tagDelete(req, a)
	default:
		return d.tagShow(req, sub)
	}
}

func (d *Dispatcher) tagShow(req Request, name string) (string, error) {
	t, err := d.tags.Use(req.Location, name, func(t *store.Tag) { t.Uses++ })
	if err != nil {
		return "", storeError(tagKind, err)
	}
	return t.Content, nil
}

func (d *Dispatcher) tagCreate(req Request, a *args) (string, error) {
	raw, ok := a.next()
	if !ok {
		return "", rejected("Please specify a name for the tag.")
	}
	content := a.remainder()
	if content == "" {
		return "", rejected("Please specify some content for the tag.")
	}
	name := store.NormalizeName(raw)
	if err := store.ValidateName(name); err != nil {
		return "", storeError(tagKind, err)
	}
	if slices.Contains(tagSubcommands, name) {
		return "", rejected("%q is a tag command and cannot be used as a name.", name)
	}
	t := store.NewTag(name, content, req.ActorID, req.Location, d.now())
	if err := d.tags.Create(req.Location, name, t); err != nil {
		return "", storeError(tagKind, err)
	}
	return fmt.Sprintf("Tag %q successfully created.", name), nil
}

func (d *Dispatcher) tagInfo(req Request, a *args) (string, error) {
	name, ok := a.next()
	if !ok {
		return "", rejected("Please specify a name for the tag to get info on.")
	}
	t, err := d.tags.Get(req.Location, name)
	if err != nil {
		return "", storeError(tagKind, err)
	}
	return renderTag(t), nil
}

func (d *Dispatcher) tagList(req Request) (string, error) {
	names, err := d.tags.Names(req.Location)
	if err != nil {
		return "", storeError(tagKind, err)
	}
	if len(names) == 0 {
		return "No tags available.", nil
	}
	return "Available tags: " + strings.Join(names, ", "), nil
}

// tagEdit replaces a tag's content. Owners and administrators may edit.
func (d *Dispatcher) tagEdit(req Request, a *args) (string, error) {
	name, ok := a.next()
	if !ok {
		return "", rejected("Please specify a tag to edit.")
	}
	content := a.remainder()
	if content == "" {
		return "", rejected("Please specify some content for the tag.")
	}
	name = store.NormalizeName(name)
	_, err := d.tags.Update(req.Location, name, func(t *store.Tag) error {
		if !d.policy.OwnerCheck(req.ActorID, t.OwnerID) {
			return store.ErrForbidden
		}
		t.Content = content
		return nil
	})
	if err != nil {
		return "", storeError(tagKind, err)
	}
	return fmt.Sprintf("Tag %q successfully edited.", name), nil
}

func (d *Dispatcher) tagDelete(req Request, a *args) (string, error) {
	name, ok := a.next()
	if !ok {
		return "", rejected("Please specify a tag to delete.")
	}
	name = store.NormalizeName(name)
	removed, err := d.tags.Remove(req.Location, name, func(t store.Tag) error {
		if !d.policy.OwnerCheck(req.ActorID, t.OwnerID) {
			return store.ErrForbidden
		}
		return nil
	})
	if err != nil {
		return "", storeError(tagKind, err)
	}
	if !removed {
		return fmt.Sprintf("Tag %q is generic and was not removed from this server.", name), nil
	}
	return fmt.Sprintf("Tag %q successfully deleted.", name), nil
}

func renderTag(t store.Tag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", t.Name)
	fmt.Fprintf(&b, "Uses: %d\n", t.Uses)
	fmt.Fprintf(&b, "Owner: %s\n", mention(t.OwnerID))
	fmt.Fprintf(&b, "Created: %s\n", t.CreatedAt.UTC().Format(time.RFC3339))
	b.WriteString(scope(t.IsGeneric()))
	return b.String()
}
