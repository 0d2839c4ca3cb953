package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/mockmate/interview"
)

// PerformanceSummary averages evaluation scores over the user's
// completed, evaluated sessions.
func (s *PGStore) PerformanceSummary(ctx context.Context, userID string) (*interview.PerformanceSummary, error) {
	summary := &interview.PerformanceSummary{UserID: userID}
	var ta, co, cn, ps float64

	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(technical_accuracy), 0),
		        COALESCE(AVG(completeness), 0),
		        COALESCE(AVG(conciseness), 0),
		        COALESCE(AVG(problem_solving), 0)
		 FROM sessions
		 WHERE user_id = $1 AND is_completed AND evaluated`,
		userID,
	).Scan(&summary.InterviewsCompleted, &ta, &co, &cn, &ps)
	if err != nil {
		return nil, fmt.Errorf("interview: performance summary: %w", err)
	}

	summary.AvgTechnicalAccuracy = int(math.Round(ta))
	summary.AvgCompleteness = int(math.Round(co))
	summary.AvgConciseness = int(math.Round(cn))
	summary.AvgProblemSolving = int(math.Round(ps))
	summary.OverallScore = int(math.Round((ta + co + cn + ps) / 4))

	return summary, nil
}
