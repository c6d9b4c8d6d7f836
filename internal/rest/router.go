package rest

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers groups every handler served by the API. Auth and Storage may be
// nil when the backend does not offer them.
type Handlers struct {
	Image        *ImageHandler
	Comment      *commentHandler
	Follow       *FollowHandler
	Feed         *FeedHandler
	Notification *NotificationHandler
	Auth         *AuthHandler
	Storage      *StorageHandler
}

// RegisterRoutes mounts the API on r. The caller is expected to install the
// auth middleware first; anonymous requests reach the handlers too.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	if h.Auth != nil {
		r.POST("/auth/register", h.Auth.Register)
		r.POST("/auth/login", h.Auth.Login)
		r.POST("/auth/refresh", h.Auth.Refresh)
		r.POST("/auth/logout", h.Auth.Logout)
	}

	r.GET("/images/:id", h.Image.GetByID)
	r.GET("/images/:id/interaction", h.Image.GetInteraction)
	r.DELETE("/images/:id/interaction", h.Image.CloseInteraction)
	r.POST("/images/:id/like", h.Image.Like)
	r.POST("/images/:id/favorite", h.Image.Favorite)
	r.POST("/images/:id/view", h.Image.RecordView)

	r.GET("/images/:id/comments", h.Comment.FetchCommentsByImage)
	r.POST("/images/:id/comments", h.Comment.CreateComment)
	r.PATCH("/images/:id/comments/:cid", h.Comment.UpdateComment)
	r.DELETE("/images/:id/comments/:cid", h.Comment.DeleteComment)

	r.GET("/users/:id/following", h.Follow.IsFollowing)
	r.POST("/users/:id/follow", h.Follow.Follow)
	r.DELETE("/users/:id/follow", h.Follow.Unfollow)
	r.GET("/users/:id/follow-stats", h.Follow.FetchStats)
	r.POST("/follows/status", h.Follow.CheckStatus)

	r.GET("/feeds/:kind", h.Feed.FetchFeed)
	r.DELETE("/feeds/:kind", h.Feed.CloseFeed)
	r.GET("/tags/popular", h.Feed.FetchPopularTags)

	r.GET("/notifications", h.Notification.Fetch)
	r.POST("/notifications/read", h.Notification.MarkRead)

	if h.Storage != nil {
		r.POST("/uploads", h.Storage.Upload)
		r.DELETE("/uploads", h.Storage.Delete)
	}
}

// SweepIdle drops idle trackers, threads and loaders every interval until
// ctx is done.
func (h Handlers) SweepIdle(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = SweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := h.sweep(); n > 0 {
				logrus.Debugf("swept %d idle components", n)
			}
		}
	}
}

func (h Handlers) sweep() int {
	n := 0
	if h.Image != nil {
		n += h.Image.trackers.sweep()
	}
	if h.Comment != nil {
		n += h.Comment.threads.sweep()
	}
	if h.Feed != nil {
		n += h.Feed.loaders.sweep()
	}
	return n
}
