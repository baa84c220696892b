package services

import (
	"context"
	"strings"

	"github.com/recordar/contact-gateway/internal/model"
)

type TemplateRepository interface {
	Create(ctx context.Context, tpl *model.MessageTemplate) (*model.MessageTemplate, error)
	Get(ctx context.Context, id string) (*model.MessageTemplate, error)
	List(ctx context.Context, f model.MessageTemplateFilter) ([]*model.MessageTemplate, int64, error)
	Update(ctx context.Context, tpl *model.MessageTemplate) (*model.MessageTemplate, error)
	Delete(ctx context.Context, id string) error
}

type TemplateService struct {
	repo TemplateRepository
}

func NewTemplateService(repo TemplateRepository) *TemplateService {
	return &TemplateService{
		repo: repo,
	}
}

func (s *TemplateService) Create(ctx context.Context, p model.MessageTemplateCreateRequest) (*model.MessageTemplate, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &model.MessageTemplate{
		Name:        p.Name,
		Description: p.Description,
		Channel:     p.Channel,
		Content:     p.Content,
	})
}

func (s *TemplateService) Get(ctx context.Context, id string) (*model.MessageTemplate, error) {
	return s.repo.Get(ctx, id)
}

func (s *TemplateService) List(ctx context.Context, f model.MessageTemplateFilter) ([]*model.MessageTemplate, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *TemplateService) Update(ctx context.Context, id string, p model.MessageTemplateUpdateRequest) (*model.MessageTemplate, error) {
	tpl, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, ErrValidation
		}
		tpl.Name = name
	}
	if p.Description != nil {
		tpl.Description = *p.Description
	}
	if p.Channel != nil {
		if !p.Channel.Valid() {
			return nil, ErrValidation
		}
		tpl.Channel = *p.Channel
	}
	if p.Content != nil {
		if *p.Content == "" {
			return nil, ErrValidation
		}
		tpl.Content = *p.Content
	}

	return s.repo.Update(ctx, tpl)
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
