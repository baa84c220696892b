package dispatch

import (
	"context"
	"errors"

	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/internal/repository"
	"github.com/recordar/contact-gateway/internal/template"
)

type ContactReader interface {
	Get(ctx context.Context, id string) (*model.Contact, error)
}

type GroupMemberReader interface {
	ListActiveMemberContacts(ctx context.Context, groupID string) ([]*model.Contact, error)
}

// Resolved pairs a recipient target with the concrete contacts it expands
// to. Targets that point at missing or inactive records resolve to an
// empty contact set.
type Resolved struct {
	Target   *model.RecipientTarget
	Contacts []*model.Contact
}

// Resolver expands recipient targets into deliverable contacts. Direct
// targets are included only while active; group targets expand to the
// group's active members in membership order. Contacts reachable through
// several targets are not deduplicated.
type Resolver struct {
	contacts ContactReader
	groups   GroupMemberReader
}

func NewResolver(contacts ContactReader, groups GroupMemberReader) *Resolver {
	return &Resolver{
		contacts: contacts,
		groups:   groups,
	}
}

func (r *Resolver) Resolve(ctx context.Context, targets []*model.RecipientTarget) ([]*Resolved, error) {
	resolved := make([]*Resolved, 0, len(targets))

	for _, target := range targets {
		entry := &Resolved{Target: target}

		switch {
		case target.ContactID != "":
			contact, err := r.contacts.Get(ctx, target.ContactID)
			if err != nil {
				if !errors.Is(err, repository.ErrContactNotFound) {
					return nil, err
				}
			} else if contact.Status == model.ContactStatusActive {
				entry.Contacts = []*model.Contact{contact}
			}

		case target.GroupID != "":
			members, err := r.groups.ListActiveMemberContacts(ctx, target.GroupID)
			if err != nil {
				return nil, err
			}
			entry.Contacts = members
		}

		resolved = append(resolved, entry)
	}

	return resolved, nil
}

// PreviewEntry is one rendered sample of a communication.
type PreviewEntry struct {
	Contact *model.Contact `json:"contact"`
	Content string         `json:"content"`
}

// Preview holds rendered samples plus the total recipient count the
// communication would reach.
type Preview struct {
	TotalRecipients int             `json:"total_recipients"`
	Samples         []*PreviewEntry `json:"samples"`
}

// PreviewRender resolves the targets and renders the communication body
// for up to maxContacts recipients.
func (r *Resolver) PreviewRender(ctx context.Context, comm *model.Communication, targets []*model.RecipientTarget, maxContacts int) (*Preview, error) {
	if maxContacts <= 0 {
		maxContacts = 3
	}

	resolved, err := r.Resolve(ctx, targets)
	if err != nil {
		return nil, err
	}

	preview := &Preview{}
	for _, entry := range resolved {
		for _, contact := range entry.Contacts {
			preview.TotalRecipients++
			if len(preview.Samples) < maxContacts {
				preview.Samples = append(preview.Samples, &PreviewEntry{
					Contact: contact,
					Content: template.Render(comm.Content, contact),
				})
			}
		}
	}

	return preview, nil
}
