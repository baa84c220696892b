package services

import (
	"context"
	"strings"

	"github.com/recordar/contact-gateway/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context, f model.ContactFilter) ([]*model.Contact, int64, error)
	Update(ctx context.Context, c *model.Contact) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type ContactService struct {
	repo ContactRepository
}

func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{
		repo: repo,
	}
}

func (s *ContactService) Create(ctx context.Context, p model.ContactCreateRequest) (*model.Contact, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &model.Contact{
		Name:     p.Name,
		Email:    strings.TrimSpace(p.Email),
		Whatsapp: strings.TrimSpace(p.Whatsapp),
		Tags:     p.Tags,
		Notes:    p.Notes,
	})
}

func (s *ContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	return s.repo.Get(ctx, id)
}

func (s *ContactService) List(ctx context.Context, f model.ContactFilter) ([]*model.Contact, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *ContactService) Update(ctx context.Context, id string, p model.ContactUpdateRequest) (*model.Contact, error) {
	contact, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		contact.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		contact.Email = strings.TrimSpace(*p.Email)
	}
	if p.Whatsapp != nil {
		contact.Whatsapp = strings.TrimSpace(*p.Whatsapp)
	}
	if p.Status != nil {
		if *p.Status != model.ContactStatusActive && *p.Status != model.ContactStatusInactive {
			return nil, ErrValidation
		}
		contact.Status = *p.Status
	}
	if p.Tags != nil {
		contact.Tags = p.Tags
	}
	if p.Notes != nil {
		contact.Notes = *p.Notes
	}

	if contact.Name == "" {
		return nil, ErrValidation
	}
	if contact.Email == "" && contact.Whatsapp == "" {
		return nil, ErrValidation
	}

	return s.repo.Update(ctx, contact)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
