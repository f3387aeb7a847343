package models

// Candidate pipeline statuses. Transitions are one-directional writes driven
// by recruiter actions; the store does not enforce an order.
const (
	CandidateApplied            = "Applied"
	CandidateScreening          = "Screening"
	CandidateShortlisted        = "Shortlisted"
	CandidateInterviewScheduled = "Interview Scheduled"
	CandidateInterviewCompleted = "Interview Completed"
	CandidateInterviewReviewed  = "Interview Reviewed"
	CandidateHired              = "Hired"
	CandidateRejected           = "Rejected"
)

var candidateStatuses = map[string]bool{
	CandidateApplied:            true,
	CandidateScreening:          true,
	CandidateShortlisted:        true,
	CandidateInterviewScheduled: true,
	CandidateInterviewCompleted: true,
	CandidateInterviewReviewed:  true,
	CandidateHired:              true,
	CandidateRejected:           true,
}

// ValidCandidateStatus reports whether s is a member of the pipeline enum.
func ValidCandidateStatus(s string) bool {
	return candidateStatuses[s]
}

// Interview lifecycle: Scheduled → In Progress → Completed. Cancelled is
// defined but no operation transitions into it.
const (
	InterviewScheduled  = "Scheduled"
	InterviewInProgress = "In Progress"
	InterviewCompleted  = "Completed"
	InterviewCancelled  = "Cancelled"
)
