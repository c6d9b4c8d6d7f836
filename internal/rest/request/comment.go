package request

// Comment is the body of comment create and update. Content is checked by the
// thread so that its preconditions keep their order.
type Comment struct {
	Content string `json:"content"`
}
