package post

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// Form is what a user submits to create or edit a post.
type Form struct {
	Text  string `form:"text" json:"text"`
	Group string `form:"group" json:"group"`
}

// FormFromPost prefills the form with a stored post.
func FormFromPost(p *Post) Form {
	f := Form{Text: p.Text}
	if p.GroupID != nil {
		f.Group = strconv.FormatUint(uint64(*p.GroupID), 10)
	}
	return f
}

// Cleaned holds the validated form values.
type Cleaned struct {
	Text    string
	GroupID *uint
}

// ValidationError maps each failing field to its messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid post form: %s", strings.Join(names, ", "))
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// GroupExists reports whether a group with the given id is stored.
type GroupExists func(ctx context.Context, id uint) (bool, error)

// Clean validates the form. Invalid input yields a *ValidationError; a failed
// group lookup is returned as is.
func (f Form) Clean(ctx context.Context, exists GroupExists) (*Cleaned, error) {
	verr := &ValidationError{}
	out := &Cleaned{Text: strings.TrimSpace(f.Text)}

	if out.Text == "" {
		verr.add("text", msgRequired)
	}

	if raw := strings.TrimSpace(f.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			verr.add("group", msgInvalidChoice)
		} else {
			gid := uint(id)
			ok, err := exists(ctx, gid)
			if err != nil {
				return nil, err
			}
			if !ok {
				verr.add("group", msgInvalidChoice)
			} else {
				out.GroupID = &gid
			}
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}
