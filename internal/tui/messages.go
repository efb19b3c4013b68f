package tui

import "github.com/matheuskafuri/feedview/internal/article"

type datasetLoadedMsg struct {
	dataset article.Dataset
}

type loadFailedMsg struct {
	err error
}

type debouncedQueryMsg struct {
	seq   int
	query string
}

type openFailedMsg struct {
	err error
}
