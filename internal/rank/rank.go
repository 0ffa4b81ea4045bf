package rank

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/pageza/mealprepai/backend/internal/model"
)

// SurpriseGoal switches the engine into shuffle mode when it is the only
// requested goal.
const SurpriseGoal = "surprise_me"

// Missing metrics must never break a comparison: absent values sort to the
// back of the requested order.
const (
	missingAsc  = 9999
	missingDesc = -9999
)

// Query carries the caller's filtering and ordering preferences.
type Query struct {
	MealType string
	Goals    []string
	Limit    int
}

// Limits bounds how many suggestions a query may request. A non-positive Max
// disables the upper bound.
type Limits struct {
	Min     int
	Max     int
	Default int
}

// DefaultLimits is the [3,8] clamp with a default of 6.
var DefaultLimits = Limits{Min: 3, Max: 8, Default: 6}

// Clamp resolves the requested limit: an absent or malformed (non-positive)
// request becomes the default, then the result is bounded into [Min, Max].
func (l Limits) Clamp(limit int) int {
	if limit <= 0 {
		limit = l.Default
	}
	if l.Min > 0 && limit < l.Min {
		limit = l.Min
	}
	if l.Max > 0 && limit > l.Max {
		limit = l.Max
	}
	return limit
}

// Select filters and orders candidates:
//
//  1. meal-type filter (case-insensitive; empty matches everything)
//  2. goal filter, ALL-match preferred with ANY-match fallback
//  3. uniform shuffle when the goal list is exactly [surprise_me]
//  4. stable sort by the first recognized ranking goal, if any
//  5. clamp and truncate to the limit
//
// The input slice is never mutated. Pure except for the shuffle branch.
func Select(recipes []model.Recipe, q Query, limits Limits) []model.Recipe {
	goals := normalizeGoals(q.Goals)

	out := filterByMealType(recipes, q.MealType)
	out = filterByGoals(out, goals)

	if len(goals) == 1 && goals[0] == SurpriseGoal {
		rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}

	if goal, ok := rankingGoal(goals); ok {
		sortByGoal(out, goal)
	}

	if limit := limits.Clamp(q.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MatchesAll reports whether the recipe's tag set contains every requested
// goal. Comparison is case-insensitive on both sides.
func MatchesAll(r model.Recipe, goals []string) bool {
	tags := lowered(r.Goals)
	for _, g := range goals {
		if !tags[strings.ToLower(g)] {
			return false
		}
	}
	return true
}

// MatchesAny reports whether the recipe carries at least one requested goal.
// Comparison is case-insensitive on both sides.
func MatchesAny(r model.Recipe, goals []string) bool {
	tags := lowered(r.Goals)
	for _, g := range goals {
		if tags[strings.ToLower(g)] {
			return true
		}
	}
	return false
}

func lowered(tags []string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[strings.ToLower(t)] = true
	}
	return m
}

func normalizeGoals(goals []string) []string {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		out = append(out, strings.ToLower(strings.TrimSpace(g)))
	}
	return out
}

// filterByMealType always returns a fresh slice so later shuffles and sorts
// cannot disturb the caller's input.
func filterByMealType(recipes []model.Recipe, mealType string) []model.Recipe {
	out := make([]model.Recipe, 0, len(recipes))
	if mealType == "" {
		return append(out, recipes...)
	}
	for _, r := range recipes {
		if strings.EqualFold(r.MealType, mealType) {
			out = append(out, r)
		}
	}
	return out
}

func filterByGoals(recipes []model.Recipe, goals []string) []model.Recipe {
	if len(goals) == 0 {
		return recipes
	}

	strict := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if MatchesAll(r, goals) {
			strict = append(strict, r)
		}
	}
	if len(strict) > 0 {
		return strict
	}

	loose := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if MatchesAny(r, goals) {
			loose = append(loose, r)
		}
	}
	return loose
}

var rankingGoals = map[string]bool{
	"low_budget":    true,
	"quick_meal":    true,
	"gain_muscle":   true,
	"high_protein":  true,
	"lose_fat":      true,
	"keto_friendly": true,
	"low_carb":      true,
}

// rankingGoal scans the requested goals in caller order and returns the first
// one that names a recognized ranking category. Only that goal is applied.
func rankingGoal(goals []string) (string, bool) {
	for _, g := range goals {
		if rankingGoals[g] {
			return g, true
		}
	}
	return "", false
}

func sortByGoal(recipes []model.Recipe, goal string) {
	switch goal {
	case "low_budget":
		sort.SliceStable(recipes, func(i, j int) bool {
			return costKey(recipes[i]) < costKey(recipes[j])
		})
	case "quick_meal":
		sort.SliceStable(recipes, func(i, j int) bool {
			return timeKey(recipes[i]) < timeKey(recipes[j])
		})
	case "gain_muscle", "high_protein":
		sort.SliceStable(recipes, func(i, j int) bool {
			return proteinKey(recipes[i]) > proteinKey(recipes[j])
		})
	case "lose_fat", "keto_friendly", "low_carb":
		sort.SliceStable(recipes, func(i, j int) bool {
			return kcalKey(recipes[i]) < kcalKey(recipes[j])
		})
	}
}

func costKey(r model.Recipe) float64 {
	if r.CostUSD != nil {
		return *r.CostUSD
	}
	return missingAsc
}

func timeKey(r model.Recipe) float64 {
	if r.TimeMin != nil {
		return float64(*r.TimeMin)
	}
	return missingAsc
}

func proteinKey(r model.Recipe) float64 {
	if r.Macros.ProteinG != nil {
		return *r.Macros.ProteinG
	}
	return missingDesc
}

func kcalKey(r model.Recipe) float64 {
	if r.Macros.Kcal != nil {
		return *r.Macros.Kcal
	}
	return missingAsc
}
