package request

type MarkRead struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}
