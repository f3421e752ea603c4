// Package port defines the contracts between the chrome core and its
// external collaborators (page container, extraction service, stores).
package port

import (
	"context"

	"github.com/bnema/chromekit/internal/domain/entity"
)

// BackForwardList exposes the navigation history of a page around its
// current entry. Items are nil when no entry exists in that direction.
type BackForwardList interface {
	CurrentItem() *entity.HistoryItem
	BackItem() *entity.HistoryItem
	ForwardItem() *entity.HistoryItem
}

// Page is a non-owning view of the active browsing document. The page
// itself is owned by the tab container; the chrome core only reads its
// state and requests navigation.
type Page interface {
	ID() entity.PageID
	URL() string
	IsLoading() bool
	BackForward() BackForwardList

	// Load issues a fresh navigation, creating a new history entry.
	Load(ctx context.Context, url string) error
	// GoBack / GoForward traverse to an existing adjacent history entry
	// without creating a new one.
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
}

// PageContainer owns page lifecycle and selection. The chrome core
// subscribes to selection changes; callbacks fire on the owner task.
type PageContainer interface {
	// SelectedPage returns the currently selected page, or nil when no
	// page is active.
	SelectedPage() Page

	SetOnPageSelected(fn func(page Page))
	SetOnPageRemoved(fn func(id entity.PageID))
}
