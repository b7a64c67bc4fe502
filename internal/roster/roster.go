package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/aojudge/ranklist/internal/rank"
)

// Contest is the operator-authored roster for one contest: identity, the
// schedule, the problem set and the team list. FreezeTime is
// contest-relative seconds and marks the default ceremony partition point.
type Contest struct {
	ID         string         `yaml:"id" json:"id"`
	Name       string         `yaml:"name" json:"name"`
	StartTime  time.Time      `yaml:"starttime" json:"starttime"`
	EndTime    time.Time      `yaml:"endtime" json:"endtime"`
	FreezeTime int64          `yaml:"freeze_time" json:"freeze_time"`
	Problems   []rank.Problem `yaml:"problems" json:"problems"`
	Teams      []rank.Team    `yaml:"teams" json:"teams"`
}

// Load reads contest.yaml from a contest directory and normalizes it.
func Load(dir string) (*Contest, error) {
	path := filepath.Join(dir, "contest.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contest roster '%s': %w", path, err)
	}
	var c Contest
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse contest roster '%s': %w", path, err)
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

// NewEngine builds a fresh ranking engine over this roster.
func (c *Contest) NewEngine() *rank.Engine {
	return rank.NewEngine(c.Teams, c.Problems)
}

func (c *Contest) normalize() error {
	if c.ID == "" {
		return fmt.Errorf("contest roster has no id")
	}
	if c.FreezeTime < 0 {
		zap.S().Warnf("contest %s has negative freeze_time %d, using 0", c.ID, c.FreezeTime)
		c.FreezeTime = 0
	}

	problems := c.Problems[:0]
	seenProblems := make(map[string]bool)
	for i, p := range c.Problems {
		if p.ID == "" {
			return fmt.Errorf("problem #%d in contest %s has no id", i+1, c.ID)
		}
		if seenProblems[p.ID] {
			zap.S().Warnf("duplicate problem id %s in contest %s, keeping the first", p.ID, c.ID)
			continue
		}
		seenProblems[p.ID] = true
		if p.Type == "" {
			p.Type = rank.TypeICPC
		}
		if !validProblemType(p.Type) {
			return fmt.Errorf("problem %s in contest %s has unknown type %q", p.ID, c.ID, p.Type)
		}
		if p.Label == "" {
			p.Label = p.ID
		}
		problems = append(problems, p)
	}
	c.Problems = problems

	teams := c.Teams[:0]
	seenTeams := make(map[string]bool)
	for i, t := range c.Teams {
		if t.ID == "" {
			return fmt.Errorf("team #%d in contest %s has no id", i+1, c.ID)
		}
		if seenTeams[t.ID] {
			zap.S().Warnf("duplicate team id %s in contest %s, keeping the first", t.ID, c.ID)
			continue
		}
		seenTeams[t.ID] = true
		if t.Name == "" {
			t.Name = t.ID
		}
		teams = append(teams, t)
	}
	c.Teams = teams
	return nil
}

func validProblemType(t rank.ProblemType) bool {
	switch t {
	case rank.TypeICPC, rank.TypeSpecialJudge, rank.TypeDualTask:
		return true
	}
	return false
}
