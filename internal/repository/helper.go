package repository

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageVerify clamps a requested page size into [1, MaxPageSize].
func PageVerify(num *int) {
	if *num <= 0 {
		*num = DefaultPageSize
	}
	if *num > MaxPageSize {
		*num = MaxPageSize
	}
}

// PageOffset rejects negative offsets.
func PageOffset(offset *int) {
	if *offset < 0 {
		*offset = 0
	}
}
