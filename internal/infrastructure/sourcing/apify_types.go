package sourcing

// Apify run statuses. SUCCEEDED is the only terminal status that yields a dataset.
const (
	apifyRunSucceeded = "SUCCEEDED"
	apifyRunFailed    = "FAILED"
	apifyRunAborted   = "ABORTED"
	apifyRunTimedOut  = "TIMED-OUT"
)

// apifyRunData is the run record returned on submit and poll
type apifyRunData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
	StatusMessage    string `json:"statusMessage"`
}

// apifyRunResponse is the envelope around a run record
type apifyRunResponse struct {
	Data apifyRunData `json:"data"`
}

// isTerminalRunStatus reports whether the run has finished, one way or another
func isTerminalRunStatus(status string) bool {
	switch status {
	case apifyRunSucceeded, apifyRunFailed, apifyRunAborted, apifyRunTimedOut:
		return true
	}
	return false
}

// apifyReviewItem is one scraped review as the actor emits it. The field
// encodings vary between actor versions, hence the flexible types.
type apifyReviewItem struct {
	ReviewID         string         `json:"reviewId"`
	Title            string         `json:"title"`
	Text             string         `json:"text"`
	Rating           FlexibleRating `json:"rating"`
	HelpfulStatement FlexibleCount  `json:"helpfulStatement"`
	Author           string         `json:"author"`
	Date             string         `json:"date"`
	Verified         bool           `json:"verified"`
}

// apifyQAItem is one scraped question/answer pair
type apifyQAItem struct {
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Votes    FlexibleCount `json:"votes"`
	Date     string        `json:"date"`
}

// apifyCatalogItem is one product in a scraped seller catalog
type apifyCatalogItem struct {
	ASIN        string         `json:"asin"`
	Title       string         `json:"title"`
	Brand       string         `json:"brand"`
	Bullets     []string       `json:"bullets"`
	Description string         `json:"description"`
	Rating      FlexibleRating `json:"rating"`
	ReviewCount FlexibleCount  `json:"reviewCount"`
}
