package dto

type SearchRequest struct {
	Search string `form:"search" validate:"required,max=300"`
}

type TopSearch struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

type TopSearchesResponse struct {
	Global []TopSearch `json:"global"`
	User   []TopSearch `json:"user,omitempty"`
}
