package services

import (
	"context"
	"strings"

	"github.com/recordar/contact-gateway/internal/model"
)

type GroupRepository interface {
	Create(ctx context.Context, g *model.Group) (*model.Group, error)
	Get(ctx context.Context, id string) (*model.Group, error)
	List(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error)
	Update(ctx context.Context, g *model.Group) (*model.Group, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, groupID, contactID string) error
	RemoveMember(ctx context.Context, groupID, contactID string) error
	ListMemberContacts(ctx context.Context, groupID string) ([]*model.Contact, error)
	CountMembers(ctx context.Context, groupID string) (int64, error)
}

type GroupService struct {
	repo     GroupRepository
	contacts ContactRepository
}

func NewGroupService(repo GroupRepository, contacts ContactRepository) *GroupService {
	return &GroupService{
		repo:     repo,
		contacts: contacts,
	}
}

func (s *GroupService) Create(ctx context.Context, p model.GroupCreateRequest) (*model.Group, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &model.Group{
		Name:        p.Name,
		Description: p.Description,
		Channel:     p.Channel,
	})
}

func (s *GroupService) Get(ctx context.Context, id string) (*model.Group, error) {
	return s.repo.Get(ctx, id)
}

func (s *GroupService) List(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *GroupService) Update(ctx context.Context, id string, p model.GroupUpdateRequest) (*model.Group, error) {
	group, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, ErrValidation
		}
		group.Name = name
	}
	if p.Description != nil {
		group.Description = *p.Description
	}
	if p.Channel != nil {
		if !p.Channel.Valid() {
			return nil, ErrValidation
		}
		group.Channel = *p.Channel
	}
	if p.Status != nil {
		if *p.Status != model.GroupStatusActive && *p.Status != model.GroupStatusInactive {
			return nil, ErrValidation
		}
		group.Status = *p.Status
	}

	return s.repo.Update(ctx, group)
}

func (s *GroupService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddMember verifies both sides of the pair exist before linking them.
func (s *GroupService) AddMember(ctx context.Context, groupID, contactID string) error {
	if _, err := s.repo.Get(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.contacts.Get(ctx, contactID); err != nil {
		return err
	}
	return s.repo.AddMember(ctx, groupID, contactID)
}

func (s *GroupService) RemoveMember(ctx context.Context, groupID, contactID string) error {
	if _, err := s.repo.Get(ctx, groupID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, groupID, contactID)
}

func (s *GroupService) Members(ctx context.Context, groupID string) ([]*model.Contact, error) {
	if _, err := s.repo.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListMemberContacts(ctx, groupID)
}
