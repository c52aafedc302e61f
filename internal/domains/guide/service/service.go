package service

import (
	"context"
	"tms/config"
	"tms/infras/otel"
	"tms/internal/domains/guide/model/dto"
	"tms/internal/domains/guide/repository"
	"tms/shared"
	"tms/shared/cache"
	"tms/shared/constant"
	gDto "tms/shared/dto"
	"tms/shared/failure"
	"tms/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheAvailableGuides = "guide:available"
)

// Guide exposes the read side of the guide directory.
type Guide interface {
	ListAvailable(ctx context.Context, window gDto.DateRange) (dto.GetAvailableGuidesResponse, error)
}

type serviceImpl struct {
	repo  repository.Guide
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Guide, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Guide {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) ListAvailable(ctx context.Context, window gDto.DateRange) (res dto.GetAvailableGuidesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := availableCacheKey(window)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for available guides")

		return res, nil
	}

	guides, err := s.repo.ListAvailable(ctx, window)
	if err != nil {
		log.Error().Err(err).Msg("failed to list available guides")

		return res, failure.ServiceUnavailable("guide directory unavailable") // nolint:wrapcheck
	}

	res.FromModels(guides)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save available guides to cache")
		}
	}()

	return res, nil
}

func availableCacheKey(window gDto.DateRange) string {
	start, end := constant.Empty, constant.Empty

	if window.Start != nil {
		start = timezone.Format(*window.Start, constant.DateOnlyFormat)
	}

	if window.End != nil {
		end = timezone.Format(*window.End, constant.DateOnlyFormat)
	}

	return shared.BuildCacheKey(cacheAvailableGuides, start, end)
}
