package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// Fingerprint produces the deterministic cache key for a (column, options)
// pair. Sample values are bounded and sorted before hashing, so two calls
// with the same values in any order share a fingerprint. The bound is the
// column's own SampleSize when set, the options' otherwise, matching the
// bound classification itself uses. Options that affect classification
// output (provider, threshold, language, regulation focus) are part of the
// key; options that only affect orchestration are not.
func Fingerprint(col models.ColumnSample, opts models.Options) string {
	limit := col.SampleSize
	if limit <= 0 {
		limit = opts.SampleSize
	}
	samples := col.StringValues(limit)
	sorted := make([]string, len(samples))
	copy(sorted, samples)
	sort.Strings(sorted)

	sampleHash := shortHash(strings.Join(sorted, "\x1f"))

	optsStr := fmt.Sprintf("%s_%g_%s_%s",
		opts.Provider, opts.ConfidenceThreshold, opts.Language, opts.RegulationFocus)
	optsHash := shortHash(optsStr)

	return fmt.Sprintf("classification:%s:%s:%s", col.Name, sampleHash, optsHash)
}

// StatsKey produces the cache key for derived aggregate statistics, which
// carry a shorter TTL than classification results.
func StatsKey(scope, window string) string {
	return fmt.Sprintf("stats:%s:%s", scope, window)
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}
