package service

import (
	"log/slog"

	"microblogPosts/internal/config"
	"microblogPosts/internal/repository"
)

type Service struct {
	Post       PostService
	Reconciler *Reconciler
}

func NewService(rep *repository.Repository, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		Post:       NewPostService(rep.Post, rep.User, cfg.StoreTimeout, logger),
		Reconciler: NewReconciler(rep.Post, rep.User, logger),
	}
}
