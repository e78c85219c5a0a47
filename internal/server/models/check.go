package models

// CheckIDLength is the fixed length of a check id.
const CheckIDLength = 20

// Check describes an uptime probe owned by a user.
type Check struct {
	ID             string `json:"id"`
	UserPhone      string `json:"userPhone"`
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}
