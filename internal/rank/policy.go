package rank

// rankingPolicy collapses one (team, problem) run history into the
// quantities the scoreboard aggregates. Implementations are stateless; one
// is picked per problem from its declared type, which keeps type switches
// out of the aggregation code.
type rankingPolicy interface {
	accepted(runs []Run) bool
	penaltyContribution(runs []Run) int64
	bestScore(runs []Run) int
	effectiveTime(runs []Run) (int64, bool)
}

var (
	icpc     = icpcPolicy{}
	dualTask = dualTaskPolicy{}
)

func policyFor(t ProblemType) rankingPolicy {
	if t == TypeDualTask {
		return dualTask
	}
	return icpc
}

// netRuns returns the prefix of runs up to and including the first accepted
// one, or the whole list if none is accepted. This is the ICPC
// net-submissions rule: once solved, later resubmissions are irrelevant.
func netRuns(runs []Run) []Run {
	for i, r := range runs {
		if r.Result.Accepted() {
			return runs[:i+1]
		}
	}
	return runs
}

// failedAttempts counts runs inside the net prefix that are neither
// accepted nor pending.
func failedAttempts(runs []Run) int {
	n := 0
	for _, r := range netRuns(runs) {
		if r.Result.Failed() {
			n++
		}
	}
	return n
}

// wrongAttemptPenalty is the ICPC convention: 20 added per wrong attempt
// before the accepting run.
const wrongAttemptPenalty = 20

// icpcPolicy implements classic penalty ranking. It also covers
// special_judge problems, which differ only upstream of the scoreboard.
type icpcPolicy struct{}

func (icpcPolicy) accepted(runs []Run) bool {
	net := netRuns(runs)
	return len(net) > 0 && net[len(net)-1].Result.Accepted()
}

func (p icpcPolicy) penaltyContribution(runs []Run) int64 {
	t, ok := p.effectiveTime(runs)
	if !ok {
		return 0
	}
	return int64(failedAttempts(runs))*wrongAttemptPenalty + t
}

func (p icpcPolicy) bestScore(runs []Run) int {
	if p.accepted(runs) {
		return 100
	}
	return 0
}

func (p icpcPolicy) effectiveTime(runs []Run) (int64, bool) {
	net := netRuns(runs)
	if len(net) == 0 {
		return 0, false
	}
	if last := net[len(net)-1]; last.Result.Accepted() {
		return last.Time, true
	}
	return 0, false
}

// dualTaskPolicy scores a problem by two independently maximized
// sub-results: the best task1 score and the best (lowest) edit distance,
// whose bonus arrives pre-computed as task2_score. The two maxima may come
// from different runs.
type dualTaskPolicy struct{}

func (dualTaskPolicy) accepted(runs []Run) bool {
	return icpc.accepted(runs)
}

func (dualTaskPolicy) penaltyContribution(runs []Run) int64 {
	// Dual-task problems rank by score and add no ICPC penalty.
	return 0
}

func (dualTaskPolicy) bestScore(runs []Run) int {
	best1, best2 := 0, 0
	for _, r := range runs {
		d := r.DualTaskDetails
		if d == nil {
			continue
		}
		if d.Task1Score > best1 {
			best1 = d.Task1Score
		}
		if d.Task2Score > best2 {
			best2 = d.Task2Score
		}
	}
	return best1 + best2
}

// effectiveTime is when the team locked in its best result: the later of
// the time its top task1 score was first reached and the time its lowest
// edit distance was first reached. Ties on either track resolve to the
// earliest time.
func (dualTaskPolicy) effectiveTime(runs []Run) (int64, bool) {
	var (
		bestTask1 int
		task1Time int64
		bestDist  int
		distTime  int64
		haveDist  bool
	)
	for _, r := range runs {
		d := r.DualTaskDetails
		if d == nil {
			continue
		}
		if d.Task1Score > 0 {
			switch {
			case d.Task1Score > bestTask1:
				bestTask1, task1Time = d.Task1Score, r.Time
			case d.Task1Score == bestTask1 && r.Time < task1Time:
				task1Time = r.Time
			}
		}
		if d.EditDistance != nil {
			switch {
			case !haveDist || *d.EditDistance < bestDist:
				bestDist, distTime, haveDist = *d.EditDistance, r.Time, true
			case *d.EditDistance == bestDist && r.Time < distTime:
				distTime = r.Time
			}
		}
	}
	switch {
	case bestTask1 > 0 && haveDist:
		return max(task1Time, distTime), true
	case bestTask1 > 0:
		return task1Time, true
	case haveDist:
		return distTime, true
	}
	return 0, false
}
