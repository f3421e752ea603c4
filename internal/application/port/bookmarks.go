package port

import "context"

// ReadingListItem is a page saved for later reading.
type ReadingListItem struct {
	URL   string
	Title string
}

// ReadingListStore is the bookmark/reading-list collaborator. Invoked by
// chrome affordances but not part of the core; storage lives elsewhere.
type ReadingListStore interface {
	Contains(ctx context.Context, url string) (bool, error)
	Add(ctx context.Context, item ReadingListItem) error
}
