package entity

// HistoryItem is a single entry in a page's back/forward list.
type HistoryItem struct {
	URL   string
	Title string
}
