package api

// GraphQL documents for the LeetCode API.
const (
	queryRecentSubmissions = `query getACSubmissions ($username: String!, $limit: Int!) {
    recentAcSubmissionList(username: $username, limit: $limit) {
        title
        titleSlug
        timestamp
        statusDisplay
        lang
    }
}`

	queryUserStats = `query getUserProfile($username: String!) {
    matchedUser(username: $username) {
        submitStats {
            acSubmissionNum {
                difficulty
                count
                submissions
            }
        }
    }
}`

	queryProfile = `query userPublicProfile($username: String!) {
    matchedUser(username: $username) {
        profile {
            userAvatar
        }
    }
}`

	queryDifficulty = `query questionDifficulty($titleSlug: String!) {
    question(titleSlug: $titleSlug) {
        difficulty
    }
}`
)
