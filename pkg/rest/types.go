package rest

// KeywordList is the watch set as exposed over HTTP.
type KeywordList struct {
	Keywords []string `json:"keywords"`
}

// AddKeywordRequest adds one search term to the watch set.
type AddKeywordRequest struct {
	Keyword string `json:"keyword" validate:"required,min=2"`
}

// Status is the banner payload of the status endpoint.
type Status struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	StartedAt string `json:"startedAt"`
	Watched   int    `json:"watched"`
}
