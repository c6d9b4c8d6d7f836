package request

// FollowStatus asks which of IDs the caller follows.
type FollowStatus struct {
	IDs []string `json:"ids" binding:"required,max=100,dive,required"`
}
