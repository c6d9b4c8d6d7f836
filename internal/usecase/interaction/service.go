package interaction

import (
	"context"

	"github.com/Guyuepp/artshare/domain"
)

type Service struct {
	likes     domain.LikeRepository
	favorites domain.FavoriteRepository
	counters  domain.CounterRPC
	images    domain.ImageRepository
	views     domain.ViewRecorder
	notifier  domain.Notifier
}

// NewService will create a new interaction service object. views and
// notifier may be nil.
func NewService(
	likes domain.LikeRepository,
	favorites domain.FavoriteRepository,
	counters domain.CounterRPC,
	images domain.ImageRepository,
	views domain.ViewRecorder,
	notifier domain.Notifier,
) *Service {
	if views == nil {
		views = discardViews{}
	}
	if notifier == nil {
		notifier = discardNotifications{}
	}
	return &Service{
		likes:     likes,
		favorites: favorites,
		counters:  counters,
		images:    images,
		views:     views,
		notifier:  notifier,
	}
}

// NewTracker creates the interaction state of one image as seen by the user
// behind session. The tracker is not ready until Bind is called.
func (s *Service) NewTracker(session domain.SessionSource) *Tracker {
	return &Tracker{
		svc:     s,
		session: session,
	}
}

type discardViews struct{}

func (discardViews) Send(domain.ImageView) {}

type discardNotifications struct{}

func (discardNotifications) Notify(context.Context, domain.Notification) {}
