package sourcing

// rainforestRequestInfo is the status envelope on every Rainforest response
type rainforestRequestInfo struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// rainforestPagination reports paging state for list responses
type rainforestPagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// rainforestReview is one review item as the provider returns it. Rating and
// helpful votes arrive in whatever encoding the provider felt like that day.
type rainforestReview struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Body             string         `json:"body"`
	Rating           FlexibleRating `json:"rating"`
	HelpfulVotes     FlexibleCount  `json:"helpful_votes"`
	VerifiedPurchase bool           `json:"verified_purchase"`
	Profile          struct {
		Name string `json:"name"`
	} `json:"profile"`
	Date struct {
		Raw string `json:"raw"`
	} `json:"date"`
}

// rainforestQuestion is one question item with its answers
type rainforestQuestion struct {
	Question struct {
		Text  string        `json:"text"`
		Votes FlexibleCount `json:"votes"`
	} `json:"question"`
	Answers []struct {
		Text string `json:"text"`
	} `json:"answers"`
	Date struct {
		Raw string `json:"raw"`
	} `json:"date"`
}

// rainforestProduct is the basic product lookup payload
type rainforestProduct struct {
	ASIN           string         `json:"asin"`
	Title          string         `json:"title"`
	Brand          string         `json:"brand"`
	FeatureBullets []string       `json:"feature_bullets"`
	Description    string         `json:"description"`
	Rating         FlexibleRating `json:"rating"`
	RatingsTotal   FlexibleCount  `json:"ratings_total"`
}

// rainforestProductResponse is the type=product response
type rainforestProductResponse struct {
	RequestInfo rainforestRequestInfo `json:"request_info"`
	Product     *rainforestProduct    `json:"product"`
	TopReviews  []rainforestReview    `json:"top_reviews"`
}

// rainforestReviewsResponse is the type=reviews response
type rainforestReviewsResponse struct {
	RequestInfo rainforestRequestInfo `json:"request_info"`
	Reviews     []rainforestReview    `json:"reviews"`
	Pagination  rainforestPagination  `json:"pagination"`
}

// rainforestQuestionsResponse is the type=questions response
type rainforestQuestionsResponse struct {
	RequestInfo rainforestRequestInfo `json:"request_info"`
	Questions   []rainforestQuestion  `json:"questions"`
	Pagination  rainforestPagination  `json:"pagination"`
}
