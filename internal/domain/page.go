package domain

// Page selects a window of a list ordered newest first.
type Page struct {
	Limit  int
	Offset int
}
