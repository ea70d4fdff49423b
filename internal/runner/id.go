package runner

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// PlanID exposes planID for callers outside this package (the CLI's
// cancel/history/cost commands need to resolve a plan file to the same
// plan id the Runner derives internally).
func PlanID(planPath string) string {
	return planID(planPath)
}

// planID derives a stable identifier for planPath: the filename's slug
// plus a short hash of its absolute path. Resume depends on the same plan
// file resolving to the same plan_id across invocations.
func planID(planPath string) string {
	abs, err := filepath.Abs(planPath)
	if err != nil {
		abs = planPath
	}

	base := strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))
	slug := strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if slug == "" {
		slug = "plan"
	}

	sum := sha256.Sum256([]byte(abs))
	return slug + "-" + hex.EncodeToString(sum[:])[:12]
}
