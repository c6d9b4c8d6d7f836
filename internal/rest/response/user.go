package response

import "github.com/Guyuepp/artshare/domain"

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func NewUserFromDomain(p *domain.Profile) *User {
	if p == nil {
		return nil
	}
	return &User{
		ID:        p.ID,
		Name:      p.DisplayName(),
		AvatarURL: p.AvatarURL,
	}
}

type Notification struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id"`
	Type      string `json:"type"`
	ImageID   string `json:"image_id,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func NewNotificationsFromDomain(list []domain.Notification) []Notification {
	res := make([]Notification, len(list))
	for i, n := range list {
		res[i] = Notification{
			ID:        n.ID,
			ActorID:   n.ActorID,
			Type:      string(n.Type),
			ImageID:   n.ImageID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(DateTimeFormat),
		}
	}
	return res
}

// Session is handed to the browser, which sends the access token back as a
// bearer token.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

func NewSessionFromDomain(s *domain.Session) Session {
	res := Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserID:       s.UserID,
		Email:        s.Email,
	}
	if !s.ExpiresAt.IsZero() {
		res.ExpiresAt = s.ExpiresAt.Unix()
	}
	return res
}
