package cache

import "fmt"

func JobSummaryKey(jobID string) string {
	return fmt.Sprintf("job:summary:%s", jobID)
}

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
