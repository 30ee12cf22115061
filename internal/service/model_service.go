package service

import (
	"context"

	"accio-playground-be/internal/dto"
	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/internal/repository/memory"
	"accio-playground-be/pkg/llm"
)

type ModelLister interface {
	ListModels(ctx context.Context) ([]llm.ModelInfo, error)
}

type IModelService interface {
	GetAll(ctx context.Context) ([]*dto.ModelResponse, error)
}

type modelService struct {
	lister       ModelLister
	catalog      *memory.ModelCatalogCache
	providerName string
	logger       logger.ILogger
}

func NewModelService(lister ModelLister, catalog *memory.ModelCatalogCache, providerName string, log logger.ILogger) IModelService {
	return &modelService{
		lister:       lister,
		catalog:      catalog,
		providerName: providerName,
		logger:       log,
	}
}

func (s *modelService) GetAll(ctx context.Context) ([]*dto.ModelResponse, error) {
	models, found := s.catalog.Get(s.providerName)
	if !found {
		fetched, err := s.lister.ListModels(ctx)
		if err != nil {
			s.logger.Error("MODELS", "Failed to fetch model catalog", map[string]interface{}{
				"provider": s.providerName,
				"error":    err.Error(),
			})
			return nil, ErrModelCatalogUnavailable
		}
		s.catalog.Save(s.providerName, fetched)
		models = fetched
	}

	res := make([]*dto.ModelResponse, 0, len(models))
	for _, m := range models {
		res = append(res, &dto.ModelResponse{
			Id:            m.Id,
			Name:          m.Name,
			ContextLength: m.ContextLength,
		})
	}
	return res, nil
}
