package request

// DeleteObject names an uploaded file by its public URL or bucket path.
type DeleteObject struct {
	URL string `json:"url" binding:"required"`
}
