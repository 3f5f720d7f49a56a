package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"microblogPosts/internal/models"
	"microblogPosts/internal/observability"
	"microblogPosts/internal/repository"
)

type ReconcileReport struct {
	Checked  int      `json:"checked"`
	Linked   int      `json:"linked"`
	Orphaned []string `json:"orphaned"`
}

// Reconciler repairs missing user→post back-references left by a create whose second
// write never happened. Re-attaching is idempotent, so every live post is replayed.
type Reconciler struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewReconciler(postRepo repository.PostRepository, userRepo repository.UserRepository, logger *slog.Logger) *Reconciler {
	return &Reconciler{postRepo: postRepo, userRepo: userRepo, logger: logger}
}

func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	posts, err := r.postRepo.GetAll(ctx, models.ReadOptions{ExcludeDeleted: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for reconciliation: %w", err)
	}

	report := &ReconcileReport{Orphaned: []string{}}
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Checked++
		err := r.userRepo.AttachPost(ctx, post.UserID, post.ID)
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			report.Orphaned = append(report.Orphaned, post.ID)
			r.logger.Warn("orphaned post", "post_id", post.ID, "user_id", post.UserID)
		case err != nil:
			return report, fmt.Errorf("failed to reconcile post %s: %w", post.ID, err)
		default:
			report.Linked++
		}
	}

	observability.OrphanedPostsCurrent.Set(float64(len(report.Orphaned)))
	r.logger.Info("reconciliation finished",
		"checked", report.Checked, "linked", report.Linked, "orphaned", len(report.Orphaned))

	return report, nil
}

// Loop runs reconciliation every interval until ctx is done.
func (r *Reconciler) Loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("reconciliation failed", "error", err)
			}
		}
	}
}
